package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attributes err to a single attribute of a model or a message. It
// returns nil if err is nil, so that validation of many attributes can be
// written as a list of AppendField calls.
//
// Use the Go name of the attribute, for example Owner or TokenAccount.
// Nested attributes are separated with a dot, for example Source.Owner.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	// Attach the stack trace at the most inner wrap only.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds err, attributed to the named attribute, to errs. Both
// errs and err may be nil.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.field
}

// FieldErrors returns all errors attributed to the named attribute. The
// whole tree of wrapped and appended errors is searched. When field errors
// for the same attribute are nested, only the outermost one is returned.
func FieldErrors(err error, name string) []error {
	var found []error
	walkFields(err, func(f *fieldError) bool {
		if f.field != name {
			return true
		}
		found = append(found, f)
		return false
	})
	return found
}

// walkFields calls fn for every field error found in the tree of err.
// Children of a field error are visited only when fn returns true.
func walkFields(err error, fn func(*fieldError) bool) {
	for !isNilErr(err) {
		if f, ok := err.(*fieldError); ok && !fn(f) {
			return
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				walkFields(e, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
