package store

// The three failure kinds a store operation can surface. Every operation
// converts its transport/HTTP failure into one of these; nothing escapes a
// store method as a panic or a bare gateway error.

type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "auth failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch failed: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "write failed: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }
