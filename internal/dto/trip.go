package dto

import "github.com/octobees/wanderplan/internal/entity"

// TripRequest carries the seven form fields, from a form post or JSON.
type TripRequest struct {
	Origin      string `json:"origin" form:"origin"`
	Destination string `json:"destination" form:"destination"`
	StartDate   string `json:"startDate" form:"startDate"`
	EndDate     string `json:"endDate" form:"endDate"`
	Budget      string `json:"budget" form:"budget"`
	Interests   string `json:"interests" form:"interests"`
	Comments    string `json:"comments" form:"comments"`
}

// Entity converts the payload without altering any value.
func (r TripRequest) Entity() entity.TripRequest {
	return entity.TripRequest{
		Origin:      r.Origin,
		Destination: r.Destination,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Budget:      r.Budget,
		Interests:   r.Interests,
		Comments:    r.Comments,
	}
}

// FieldUpdateRequest edits a single field, mirroring one keystroke in the form.
type FieldUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}
