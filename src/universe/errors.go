package universe

import (
	"errors"
	"fmt"
)

//ErrorType represents the category of the universe error
type ErrorType string

const (
	//ErrorTypeFormat - wrong extension, header, count or position line
	ErrorTypeFormat ErrorType = "invalid_format"
	//ErrorTypeSizeMismatch - loaded dimensions differ from the live instance
	ErrorTypeSizeMismatch ErrorType = "size_mismatch"
	//ErrorTypeTooLarge - dimensions outside the supported range
	ErrorTypeTooLarge ErrorType = "too_large"
	//ErrorTypeOutOfBounds - coordinate outside the universe
	ErrorTypeOutOfBounds ErrorType = "out_of_bounds"
	//ErrorTypeIO - the file could not be opened, read or written
	ErrorTypeIO ErrorType = "io"
)

//Error is returned by every failing universe operation
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func formatErrorf(format string, args ...interface{}) error {
	return &Error{Type: ErrorTypeFormat, Message: fmt.Sprintf(format, args...)}
}

func wrapFormat(message string, err error) error {
	return &Error{Type: ErrorTypeFormat, Message: message, Err: err}
}

func sizeMismatchf(format string, args ...interface{}) error {
	return &Error{Type: ErrorTypeSizeMismatch, Message: fmt.Sprintf(format, args...)}
}

func tooLargef(format string, args ...interface{}) error {
	return &Error{Type: ErrorTypeTooLarge, Message: fmt.Sprintf(format, args...)}
}

func outOfBounds(row int, col int, b bounds) error {
	return &Error{
		Type:    ErrorTypeOutOfBounds,
		Message: fmt.Sprintf("cell %d,%d is outside the %dx%d universe", row, col, b.rows, b.cols),
	}
}

func wrapIO(message string, err error) error {
	return &Error{Type: ErrorTypeIO, Message: message, Err: err}
}

//GetType returns the error type of err, empty if err is not a universe error
func GetType(err error) ErrorType {
	var uErr *Error
	if errors.As(err, &uErr) {
		return uErr.Type
	}
	return ""
}
