package identity

import (
	"context"
	"errors"
)

// Claim is the decoded result of verifying a provider-issued identity
// token. It carries facts only; linking it to a local account is the
// resolver's job.
type Claim struct {
	Email string
	Phone string
	Name  string
}

var (
	// ErrInvalidToken covers malformed, tampered and expired identity
	// tokens.
	ErrInvalidToken = errors.New("invalid identity token")

	// ErrUnavailable is returned when the provider never initialized at
	// startup. Routes relying on it fail at call time instead of taking
	// the process down.
	ErrUnavailable = errors.New("identity provider unavailable")
)

// Verifier checks an externally issued identity token against a trusted
// provider. Keep this small so tests can fake it easily.
type Verifier interface {
	VerifyIdentityToken(ctx context.Context, token string) (Claim, error)
}

// Disabled is the stand-in verifier used when provider setup failed.
type Disabled struct{}

func (Disabled) VerifyIdentityToken(ctx context.Context, token string) (Claim, error) {
	return Claim{}, ErrUnavailable
}
