package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 13000-13999: Submission & Judge errors
// 14000-14999: Front-end (REPL / HTTP) errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10006
	Timeout             ErrorCode = 10008
	Canceled            ErrorCode = 10009
	Unsupported         ErrorCode = 10010

	// Storage errors (10200-10299)
	StoreError ErrorCode = 10200

	// Validation errors (10300-10399)
	ValidationFailed ErrorCode = 10300
	InvalidFormat    ErrorCode = 10301

	// ========== Submission & Judge Errors (13000-13999) ==========

	// Submission (13000-13099)
	LanguageNotSupported ErrorCode = 13003
	SourceCodeEmpty      ErrorCode = 13006

	// Judge transport (13100-13199)
	TransportFailed ErrorCode = 13100

	// ========== Front-end Errors (14000-14999) ==========

	UnknownCommand ErrorCode = 14000
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	Timeout:             "Timed out waiting for the judge",
	Canceled:            "Operation canceled",
	Unsupported:         "Operation not supported by this backend",

	StoreError: "Preference store operation failed",

	ValidationFailed: "Validation failed",
	InvalidFormat:    "Invalid format",

	LanguageNotSupported: "Programming language not supported",
	SourceCodeEmpty:      "Source code cannot be empty",

	TransportFailed: "Judge request failed",

	UnknownCommand: "Unknown command",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound:
		return 404
	case c == TooManyRequests:
		return 429
	case c == Canceled:
		return 499
	case c == TransportFailed:
		return 502
	case c == Timeout:
		return 504
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == SourceCodeEmpty, c == LanguageNotSupported, c == UnknownCommand:
		return 400
	default:
		return 500
	}
}
