package response

import "taxclarity/internal/apperr"

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, code, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Code:       code,
		Error:      err,
	}
}

// Client-facing text for failures whose detail stays in the logs.
var publicMessages = map[string]string{
	apperr.CodeStorage:        "Something went wrong, please try again",
	apperr.CodePartialFailure: "Your checklist is temporarily empty, please retry",
	apperr.CodeInternal:       "Something went wrong, please try again",
}

// FromError maps an application error onto the error envelope. Storage,
// partial-failure and internal errors get a fixed message.
func FromError(err error) (int, Response) {
	status := apperr.StatusOf(err)
	code := apperr.CodeOf(err)
	msg, ok := publicMessages[code]
	if !ok {
		msg = err.Error()
	}
	return status, Error(status, code, msg)
}
