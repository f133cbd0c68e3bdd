package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given error implements unpacker interface, it is flattened. All
// returned errors are directly visible by the result.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(unpacker); ok {
			res = append(res, u.Unpack()...)
		} else {
			res = append(res, e)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// multiErr is an error that groups together any number of errors. It is
// returned by Append when more than one error must be reported, usually
// during validation.
type multiErr []error

func (e multiErr) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, er := range e {
		msgs[i] = er.Error()
	}
	return fmt.Sprintf("%d errors occurred: %s", len(e), strings.Join(msgs, "; "))
}

// Unpack returns all errors grouped by this instance.
func (e multiErr) Unpack() []error {
	return []error(e)
}

// Code returns the code of the first error. Validation is fail-fast,
// so the first error is the most relevant one.
func (e multiErr) Code() uint32 {
	return codeOf(e[0])
}

// unpacker is implemented by errors that represent a collection of errors.
type unpacker interface {
	Unpack() []error
}
