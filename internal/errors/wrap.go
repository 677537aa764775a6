package errors

import (
	"errors"
	"fmt"
)

// Op names the step an error came from, such as {source, load_records}.
type Op struct {
	Module string
	Name   string
}

func (o Op) String() string { return o.Module + "." + o.Name }

// Wrap attaches an operator-facing message to err. A nil err stays nil.
func (o Op) Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &UserError{Op: o, Cause: err, Message: message}
}

// Wrapf is Wrap with a formatted message.
func (o Op) Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &UserError{Op: o, Cause: err, Message: fmt.Sprintf(format, args...)}
}

// UserError carries a short message for whoever runs the import or the
// CLI, keeping the underlying cause for logs and errors.Is.
type UserError struct {
	Op      Op
	Cause   error
	Message string
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
}

func (e *UserError) Unwrap() error { return e.Cause }

// UserMessage returns the outermost UserError message in err's chain, or
// err.Error() when there is none.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}
