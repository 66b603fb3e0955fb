package entity

import (
	"errors"
	"fmt"
)

// Trip field names as used by the form inputs and the JSON API.
const (
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldBudget      = "budget"
	FieldInterests   = "interests"
	FieldComments    = "comments"
)

// ErrUnknownField is returned when a field edit names no TripRequest attribute.
var ErrUnknownField = errors.New("unknown trip field")

// TripRequest holds the user supplied trip parameters for one generation attempt.
// Values are kept verbatim; nothing is validated or normalized.
type TripRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Budget      string `json:"budget"`
	Interests   string `json:"interests"`
	Comments    string `json:"comments"`
}

// Set assigns a single field by its form name.
func (t *TripRequest) Set(field, value string) error {
	switch field {
	case FieldOrigin:
		t.Origin = value
	case FieldDestination:
		t.Destination = value
	case FieldStartDate:
		t.StartDate = value
	case FieldEndDate:
		t.EndDate = value
	case FieldBudget:
		t.Budget = value
	case FieldInterests:
		t.Interests = value
	case FieldComments:
		t.Comments = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}
