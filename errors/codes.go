package errors

// ErrorCode identifies an application error category
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 200
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INTERNAL         ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005

	ErrorCode_ARTICLE_NOT_SUPPORTED ErrorCode = 2001
	ErrorCode_SUMMARY_FAILED        ErrorCode = 2002
	ErrorCode_INFERENCE_FAILED      ErrorCode = 2003
	ErrorCode_NARRATION_FAILED      ErrorCode = 2004

	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 3001
	ErrorCode_INTEGRATION_STORE_FAILED   ErrorCode = 3002
	ErrorCode_INTEGRATION_LLM_FAILED     ErrorCode = 3003
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_ARTICLE_NOT_SUPPORTED:      "ARTICLE_NOT_SUPPORTED",
	ErrorCode_SUMMARY_FAILED:             "SUMMARY_FAILED",
	ErrorCode_INFERENCE_FAILED:           "INFERENCE_FAILED",
	ErrorCode_NARRATION_FAILED:           "NARRATION_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_STORE_FAILED:   "INTEGRATION_STORE_FAILED",
	ErrorCode_INTEGRATION_LLM_FAILED:     "INTEGRATION_LLM_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
