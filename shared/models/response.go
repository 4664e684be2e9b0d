package models

// ErrorResponse is the JSON body of every relay error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
