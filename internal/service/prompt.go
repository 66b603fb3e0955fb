package service

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/octobees/wanderplan/internal/entity"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("prompt").Parse(promptSource))

// BuildPrompt embeds the trip fields verbatim into the itinerary instruction.
// Empty fields are allowed and nothing is escaped.
func BuildPrompt(trip entity.TripRequest) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, trip); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
