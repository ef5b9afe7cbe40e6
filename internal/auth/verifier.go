package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tarpaulin-edu/course-service/internal/config"
)

// ErrUnauthenticated covers every verification failure: missing or
// malformed token, wrong algorithm, bad signature, expired, wrong
// audience or issuer, and signing-key fetch failures. Callers get no
// finer-grained signal than this.
var ErrUnauthenticated = errors.New("unauthenticated")

// Only RS256 is accepted; the provider signs id tokens with RSA keys
// published at its JWKS endpoint.
var allowedAlgorithms = []string{"RS256"}

// Claims are the verified assertions extracted from a bearer token.
type Claims struct {
	Subject  string
	Audience []string
	Issuer   string
}

// Verifier validates bearer tokens against the identity provider's
// published signing keys.
type Verifier struct {
	cfg config.AuthConfig

	// The JWKS client is created lazily on first use and reused for the
	// process lifetime; keyfunc refreshes keys in the background.
	initOnce sync.Once
	keys     keyfunc.Keyfunc
	initErr  error
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{cfg: cfg}
}

func (v *Verifier) signingKeys(ctx context.Context) (jwt.Keyfunc, error) {
	v.initOnce.Do(func() {
		v.keys, v.initErr = keyfunc.NewDefaultCtx(ctx, []string{v.cfg.JWKSEndpoint()})
	})
	if v.initErr != nil {
		return nil, fmt.Errorf("fetch signing keys: %w", v.initErr)
	}
	return v.keys.Keyfunc, nil
}

// Verify validates the raw token and returns its claims. Any failure
// wraps ErrUnauthenticated; identity-provider outages are not retried.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}

	kf, err := v.signingKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithIssuer(v.cfg.ExpectedIssuer()),
		jwt.WithExpirationRequired(),
	)

	var registered jwt.RegisteredClaims
	token, err := parser.ParseWithClaims(rawToken, &registered, kf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	if registered.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}

	return &Claims{
		Subject:  registered.Subject,
		Audience: registered.Audience,
		Issuer:   registered.Issuer,
	}, nil
}
