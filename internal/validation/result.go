// Package validation holds the format rules for user-entered values.
//
// Every validator is a pure function: it takes the raw string the user typed
// (plus a second value for confirmation checks) and returns a Result. None of
// them panic or perform I/O, so they are safe to call on every keystroke.
package validation

// Result is the only contract between validators and their callers.
// Error is empty when IsValid is true.
type Result struct {
	IsValid bool
	Error   string
}

func valid() Result {
	return Result{IsValid: true}
}

func invalid(msg string) Result {
	return Result{IsValid: false, Error: msg}
}
