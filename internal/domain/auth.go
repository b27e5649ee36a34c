package domain

// Identity is the verified caller extracted from a bearer token. It is
// threaded explicitly into service calls rather than read from ambient state.
type Identity struct {
	ID    string
	Email string
	Name  string
}
