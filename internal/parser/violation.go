package parser

import (
	"errors"
	"fmt"

	language "github.com/hanpama/schemagraph/internal/language"
)

var (
	// ErrOperationNotFound is reported when a schema block binds an operation
	// to a type that is not declared.
	ErrOperationNotFound = errors.New("operation does not exist")

	// ErrExtensionBaseNotFound is reported when an extension has no base
	// definition to fold into.
	ErrExtensionBaseNotFound = errors.New("extension base not found")
)

type Violation struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`

	err error
}

func (v *Violation) Error() string {
	if v.File == "" && v.Line == 0 {
		return v.Message
	}
	return fmt.Sprintf("%s %s:%d:%d", v.Message, v.File, v.Line, v.Column)
}

func (v *Violation) Unwrap() error { return v.err }

type ValidationError []*Violation

func (e ValidationError) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "violations found:\n"
	for _, v := range e {
		msg += "- " + v.Error() + "\n"
	}
	return msg
}

// Unwrap exposes every violation so errors.Is matches the sentinels.
func (e ValidationError) Unwrap() []error {
	errs := make([]error, len(e))
	for i, v := range e {
		errs[i] = v
	}
	return errs
}

func violationWithPosition(err error, message string, pos *language.Position) *Violation {
	v := &Violation{Message: message, err: err}
	if pos != nil {
		v.Line = pos.Line
		v.Column = pos.Column
		if pos.Src != nil {
			v.File = pos.Src.Name
		}
	}
	return v
}

func violationOperationNotFound(op language.Operation, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(ErrOperationNotFound,
		fmt.Sprintf("%s: %s type %q is not defined", ErrOperationNotFound, op, typeName), pos)
}

func violationExtensionBaseNotFound(kind, name string) *Violation {
	return violationWithPosition(ErrExtensionBaseNotFound,
		fmt.Sprintf("%s: %s %q", ErrExtensionBaseNotFound, kind, name), nil)
}
