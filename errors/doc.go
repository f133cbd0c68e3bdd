/*
Package errors implements custom error interfaces for custody.

Reuse as many errors from this package as possible and define custom package
errors only when absolutely necessary. Register a custom error with
Register(code, description); codes must be unique across the whole
application, which is enforced at startup.

For reusing errors use ErrXyz.New and ErrXyz.Newf, or Wrap/Wrapf an
existing error to add context. A stack trace is attached on the first wrap.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the full stack trace

Test the kind of an error with ErrXyz.Is(err). Wrapping keeps the kind.
*/
package errors
