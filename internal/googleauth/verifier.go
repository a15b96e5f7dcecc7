package googleauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	// ErrInvalidCredential covers every way the Google token can fail
	// verification: malformed, expired, wrong audience, bad signature.
	ErrInvalidCredential = errors.New("invalid identity credential")
	// ErrDomainNotAllowed means the token verified but the account is not on
	// the campus domain. The wrapped message carries the rejected email so the
	// client can tell the student which address they signed in with.
	ErrDomainNotAllowed = errors.New("email domain not allowed")
)

// Claims is the identity tuple extracted from a verified Google ID token.
type Claims struct {
	SubjectID string
	Email     string
	Name      string
	Picture   string
}

// Verifier validates an opaque Google ID token and extracts its claims.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

// IDTokenVerifier verifies tokens against Google's public keys for a single
// OAuth client id.
type IDTokenVerifier struct {
	clientID string
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID}
}

// Verify checks signature, expiry, and audience before any claim is trusted.
func (v *IDTokenVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &Claims{
		SubjectID: payload.Subject,
		Email:     email,
		Name:      name,
		Picture:   picture,
	}, nil
}

// CheckDomain enforces the campus allowlist: email must end with "@"+domain.
// Runs strictly after token verification so only verified emails reach it.
func CheckDomain(email, domain string) error {
	if !strings.HasSuffix(email, "@"+domain) {
		return fmt.Errorf("%w: %s", ErrDomainNotAllowed, email)
	}
	return nil
}
