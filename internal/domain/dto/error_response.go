package dto

import "time"

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid window"`
	ErrorDetails string    `json:"error,omitempty" example:"window must be a positive integer"`
	Timestamp    time.Time `json:"timestamp" example:"2024-09-06T21:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// err, when non-nil, fills ErrorDetails.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
