package main

import "fmt"

// usageError marks a bad-arguments or malformed-URI failure: it aborts
// before any I/O and prints the usage banner alongside the message.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(msg string) error { return &usageError{msg: msg} }

// configError marks an unreadable secrets file or invalid --restore-request
// JSON: like a usage error, it aborts with a message and the usage banner
// before any I/O.
type configError struct {
	msg string
	err error
}

func (e *configError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.err)
	}
	return e.msg
}

func (e *configError) Unwrap() error { return e.err }

func newConfigError(msg string, err error) error { return &configError{msg: msg, err: err} }

// integrityError marks an AES-GCM tag mismatch, an unsupported encryption
// version, or truncated ciphertext.
type integrityError struct {
	msg string
}

func (e *integrityError) Error() string { return "integrity error: " + e.msg }

func newIntegrityError(msg string) error { return &integrityError{msg: msg} }

func isUsageError(err error) bool {
	_, ok := err.(*usageError)
	return ok
}

func isConfigError(err error) bool {
	_, ok := err.(*configError)
	return ok
}
