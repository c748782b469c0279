package pms

import "errors"

// ErrorCode classifies matcher API failures.
type ErrorCode uint32

const (
	// Success reports no error.
	Success ErrorCode = 0

	// ErrBadParam reports a nil or degenerate argument.
	ErrBadParam ErrorCode = 1

	// ErrBadConfig reports an out-of-range configuration value.
	ErrBadConfig ErrorCode = 2

	// ErrShapeMismatch reports image/volume/map dimension disagreement.
	ErrShapeMismatch ErrorCode = 3

	// ErrNonFinite reports a NaN detected in the precomputed support
	// weights before optimization starts.
	ErrNonFinite ErrorCode = 4
)

// ErrorString returns a stable name for a code, or "" for unknown codes.
func ErrorString(code ErrorCode) string {
	switch code {
	case Success:
		return "PMS_SUCCESS"
	case ErrBadParam:
		return "PMS_ERR_BAD_PARAM"
	case ErrBadConfig:
		return "PMS_ERR_BAD_CONFIG"
	case ErrShapeMismatch:
		return "PMS_ERR_SHAPE_MISMATCH"
	case ErrNonFinite:
		return "PMS_ERR_NON_FINITE"
	default:
		return ""
	}
}

// Error is a typed error carrying an ErrorCode.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if s := ErrorString(e.Code); s != "" {
		return "pms: " + s
	}
	return "pms: error"
}

// ErrorCodeOf returns the code carried by err, or Success for nil.
//
// For non-*Error errors it returns ErrBadParam as a conservative fallback.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrBadParam
}

func newError(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}
