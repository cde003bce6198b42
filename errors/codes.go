package errors

import "strconv"

// ErrorCode is the machine-readable code carried in error responses
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED       ErrorCode = 0
	ErrorCode_HTTP_OK           ErrorCode = 200
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1002
	ErrorCode_NOT_FOUND         ErrorCode = 1003
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_PERMISSION_DENIED ErrorCode = 1006

	ErrorCode_TRIGGER_SUPPRESSED ErrorCode = 2000
	ErrorCode_CIRCUIT_OPEN       ErrorCode = 2001
	ErrorCode_RECONCILE_FAILED   ErrorCode = 2002

	ErrorCode_STORE_UNAVAILABLE          ErrorCode = 3000
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 3001
	ErrorCode_INTEGRATION_NOTIFY_FAILED  ErrorCode = 3002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                "UNSPECIFIED",
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_TRIGGER_SUPPRESSED:         "TRIGGER_SUPPRESSED",
	ErrorCode_CIRCUIT_OPEN:               "CIRCUIT_OPEN",
	ErrorCode_RECONCILE_FAILED:           "RECONCILE_FAILED",
	ErrorCode_STORE_UNAVAILABLE:          "STORE_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_NOTIFY_FAILED:  "INTEGRATION_NOTIFY_FAILED",
}

// String returns the code name
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "ErrorCode(" + strconv.Itoa(int(c)) + ")"
}

// MarshalText encodes the code by name in JSON bodies
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
