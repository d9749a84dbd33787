package errors

// ErrorCode identifies an application error category in API responses.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1005

	// Webhook
	ErrorCode_WEBHOOK_INVALID_SIGNATURE ErrorCode = 2000
	ErrorCode_WEBHOOK_DUPLICATE_EVENT   ErrorCode = 2001

	// Meeting pipeline
	ErrorCode_MEETING_NOT_FOUND       ErrorCode = 3000
	ErrorCode_TRANSCRIPT_NOT_FOUND    ErrorCode = 3001
	ErrorCode_TRANSCRIPT_UNAVAILABLE  ErrorCode = 3002
	ErrorCode_TRANSCRIPT_FETCH_FAILED ErrorCode = 3003
	ErrorCode_TRANSCRIPT_DECODE       ErrorCode = 3004
	ErrorCode_CLASSIFICATION_FAILED   ErrorCode = 3005
	ErrorCode_GENERATION_FAILED       ErrorCode = 3006
	ErrorCode_SCHEMA_VIOLATION        ErrorCode = 3007
	ErrorCode_PROCESSING_FAILED       ErrorCode = 3008
	ErrorCode_REPROCESS_NOT_POSSIBLE  ErrorCode = 3009

	// Prompt templates
	ErrorCode_PROMPT_NOT_FOUND ErrorCode = 4000

	// Integrations
	ErrorCode_PROVIDER_AUTH_FAILED        ErrorCode = 5000
	ErrorCode_PROVIDER_API_FAILED         ErrorCode = 5001
	ErrorCode_LLM_FAILED                  ErrorCode = 5002
	ErrorCode_INTEGRATION_CACHE_FAILED    ErrorCode = 5003
	ErrorCode_INTEGRATION_DATABASE_FAILED ErrorCode = 5004
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                     "OK",
	ErrorCode_INTERNAL:                    "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:            "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                   "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:              "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:             "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:             "INVALID_PAYLOAD",
	ErrorCode_WEBHOOK_INVALID_SIGNATURE:   "WEBHOOK_INVALID_SIGNATURE",
	ErrorCode_WEBHOOK_DUPLICATE_EVENT:     "WEBHOOK_DUPLICATE_EVENT",
	ErrorCode_MEETING_NOT_FOUND:           "MEETING_NOT_FOUND",
	ErrorCode_TRANSCRIPT_NOT_FOUND:        "TRANSCRIPT_NOT_FOUND",
	ErrorCode_TRANSCRIPT_UNAVAILABLE:      "TRANSCRIPT_UNAVAILABLE",
	ErrorCode_TRANSCRIPT_FETCH_FAILED:     "TRANSCRIPT_FETCH_FAILED",
	ErrorCode_TRANSCRIPT_DECODE:           "TRANSCRIPT_DECODE",
	ErrorCode_CLASSIFICATION_FAILED:       "CLASSIFICATION_FAILED",
	ErrorCode_GENERATION_FAILED:           "GENERATION_FAILED",
	ErrorCode_SCHEMA_VIOLATION:            "SCHEMA_VIOLATION",
	ErrorCode_PROCESSING_FAILED:           "PROCESSING_FAILED",
	ErrorCode_REPROCESS_NOT_POSSIBLE:      "REPROCESS_NOT_POSSIBLE",
	ErrorCode_PROMPT_NOT_FOUND:            "PROMPT_NOT_FOUND",
	ErrorCode_PROVIDER_AUTH_FAILED:        "PROVIDER_AUTH_FAILED",
	ErrorCode_PROVIDER_API_FAILED:         "PROVIDER_API_FAILED",
	ErrorCode_LLM_FAILED:                  "LLM_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:    "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_DATABASE_FAILED: "INTEGRATION_DATABASE_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
