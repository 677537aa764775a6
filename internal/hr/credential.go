package hr

import "context"

// Credential is an (employee code, PIN) pair.
type Credential struct {
	Code string
	PIN  string
}

// CredentialStore checks employee credentials.
type CredentialStore interface {
	// Authenticate reports whether pin belongs to code. Unknown codes return
	// false without error.
	Authenticate(ctx context.Context, code, pin string) (bool, error)
}
