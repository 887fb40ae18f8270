package constants

// Upstream Provider Error Codes
// These constants define specific error scenarios for the ERP API client

// Transport-level errors
const (
	ErrCodeNetworkError   = "NETWORK_ERROR"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInvalidAPIKey  = "INVALID_API_KEY"
	ErrCodeNotFound       = "RESOURCE_NOT_FOUND"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUpstreamError  = "UPSTREAM_ERROR"
	ErrCodeMalformedReply = "MALFORMED_RESPONSE"
)

// Data-quality errors (never fatal; they flip the manual-review flag)
const (
	ErrCodeUnparsableName     = "UNPARSABLE_NAME"
	ErrCodeUnresolvedPortCode = "UNRESOLVED_PORT_CODE"
	ErrCodeInvalidDataFormat  = "INVALID_DATA_FORMAT"
)

// ProviderErrorMessages maps error codes to human-readable messages
var ProviderErrorMessages = map[string]string{
	ErrCodeNetworkError:   "Unable to reach the upstream ERP API",
	ErrCodeTimeout:        "The upstream ERP API did not respond in time",
	ErrCodeRateLimited:    "Upstream rate limit exceeded. Please try again later",
	ErrCodeInvalidAPIKey:  "The upstream API key is invalid or has been revoked",
	ErrCodeNotFound:       "The requested resource was not found upstream",
	ErrCodeBadRequest:     "The upstream API rejected the request",
	ErrCodeUpstreamError:  "The upstream ERP API returned a server error",
	ErrCodeMalformedReply: "The upstream response could not be decoded",

	ErrCodeUnparsableName:     "No article code could be parsed from the name",
	ErrCodeUnresolvedPortCode: "A port code was present but could not be resolved",
	ErrCodeInvalidDataFormat:  "The data format is invalid",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
