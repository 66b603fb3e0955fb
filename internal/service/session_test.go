package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/wanderplan/internal/entity"
	"github.com/octobees/wanderplan/internal/repository"
)

func newTestSessionService(gen *generatorStub) *SessionService {
	repo := repository.NewMemorySessionsRepository(time.Hour)
	return NewSessionService(repo, NewItineraryService(gen, nil, nil))
}

func TestSessionService_Resolve(t *testing.T) {
	svc := newTestSessionService(&generatorStub{})
	ctx := context.Background()

	sess, created, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.Resolve(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, sess, again)

	other, created, err := svc.Resolve(ctx, "unknown-id")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, sess.ID, other.ID)
}

func TestSessionService_GenerateBusyWindow(t *testing.T) {
	var sess *entity.Session
	var busyDuringCall bool
	gen := &generatorStub{text: "# Trip", onCall: func(context.Context) { busyDuringCall = sess.Busy() }}
	svc := newTestSessionService(gen)

	sess, _, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	svc.UpdateTrip(sess, entity.TripRequest{Origin: "Oslo", Destination: "Bergen"})

	assert.False(t, sess.Busy())
	result, err := svc.Generate(context.Background(), sess)
	require.NoError(t, err)

	assert.True(t, busyDuringCall)
	assert.False(t, sess.Busy())
	assert.Equal(t, "# Trip", result)
	assert.Equal(t, "# Trip", sess.Itinerary())
	assert.Contains(t, gen.prompts[0], "depart from Oslo and go to Bergen")
}

func TestSessionService_GenerateRejectsConcurrentCall(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gen := &generatorStub{text: "done", onCall: func(context.Context) {
		close(entered)
		<-release
	}}
	svc := newTestSessionService(gen)
	sess, _, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.Generate(context.Background(), sess)
	}()

	<-entered
	_, err = svc.Generate(context.Background(), sess)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()
	assert.False(t, sess.Busy())
	assert.Equal(t, "done", sess.Itinerary())
}

func TestSessionService_ErrorResultReplacesItinerary(t *testing.T) {
	gen := &generatorStub{text: "first"}
	svc := newTestSessionService(gen)
	sess, _, _ := svc.Resolve(context.Background(), "")

	_, err := svc.Generate(context.Background(), sess)
	require.NoError(t, err)

	gen.text = ""
	gen.err = assert.AnError
	result, err := svc.Generate(context.Background(), sess)
	require.NoError(t, err)
	assert.Contains(t, result, "error generating the itinerary")
	assert.Equal(t, result, sess.Itinerary())
}

func TestSessionService_SetField(t *testing.T) {
	svc := newTestSessionService(&generatorStub{})
	sess, _, _ := svc.Resolve(context.Background(), "")

	require.NoError(t, svc.SetField(sess, entity.FieldBudget, "900"))
	assert.Equal(t, "900", sess.Trip().Budget)
	assert.ErrorIs(t, svc.SetField(sess, "nope", "x"), entity.ErrUnknownField)
}

func TestSessionService_Reject(t *testing.T) {
	gen := &generatorStub{text: "never"}
	svc := newTestSessionService(gen)
	sess, _, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)

	svc.Reject(sess, ErrRateLimited)

	assert.Equal(t, "There was an error generating the itinerary: generation rate limit exceeded. Please try again later.", sess.Itinerary())
	assert.False(t, sess.Busy())
	assert.Empty(t, gen.prompts)

	_, ok := sess.Begin(time.Now())
	require.True(t, ok)
	svc.Reject(sess, ErrRateLimited)
	assert.True(t, sess.Busy(), "a call in flight keeps the session busy")
}
