package montecarlo

import "fmt"

// Error codes
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeInvalidConfig    = "INVALID_CONFIG"
)

// Error is a local, synchronous failure of the simulation core.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so callers can compare
// against the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidInput     = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrInsufficientData = &Error{Code: CodeInsufficientData, Message: "insufficient data"}
	ErrInvalidConfig    = &Error{Code: CodeInvalidConfig, Message: "invalid config"}
)

func invalidInput(format string, args ...any) error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func insufficientData(format string, args ...any) error {
	return &Error{Code: CodeInsufficientData, Message: fmt.Sprintf(format, args...)}
}

func invalidConfig(format string, args ...any) error {
	return &Error{Code: CodeInvalidConfig, Message: fmt.Sprintf(format, args...)}
}
