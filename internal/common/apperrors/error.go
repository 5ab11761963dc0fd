// Package apperrors provides chainable application errors for the commitproof tools.
// An Error keeps a base error for errors.Is / errors.As, any number of attached
// errors, and the process exit code the CLI should use when the error reaches main.
package apperrors

// Error defines the interface for application errors. All mutating methods return
// a new Error so package-level sentinels can be used as templates.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // new error using current as template
	Msg(msg string) Error                  // new message, wraps original
	MsgErr(msg string, err ...error) Error // new message, wraps original and extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	SetExitCode(int) Error                 // sets the process exit code for the error
	ExitCode() int                         // returns the current exit code
	Prefix(string) Error                   // adds a prefix to the error message
	ErrorAll() string                      // returns full message including wrapped errors
	UnwrapAll() []error                    // returns all wrapped errors
}
