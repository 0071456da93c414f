package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
)

// ErrInvalidToken is returned for every token that does not yield a subject.
var ErrInvalidToken = errors.New("invalid token")

const clockSkew = 30 * time.Second

// Verifier turns a bearer token into the authenticated subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Options constrain the accepted tokens. Empty fields are not checked.
type Options struct {
	Issuer   string
	Audience string
}

func (o Options) parser(methods ...string) *jwt.Parser {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}
	if o.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(o.Issuer))
	}
	if o.Audience != "" {
		opts = append(opts, jwt.WithAudience(o.Audience))
	}
	return jwt.NewParser(opts...)
}

func subject(parser *jwt.Parser, raw string, keyFunc jwt.Keyfunc) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// HMACVerifier accepts HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHMACVerifier(secret string, opts Options) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), parser: opts.parser(jwt.SigningMethodHS256.Alg())}
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (string, error) {
	return subject(v.parser, token, func(*jwt.Token) (any, error) { return v.secret, nil })
}

// JWKSVerifier accepts RS256 and ES256 tokens signed by keys published in a JWKS.
type JWKSVerifier struct {
	jwks   *keyfunc.JWKS
	parser *jwt.Parser
}

// NewJWKSVerifier fetches the key set at url and refreshes it in the background.
func NewJWKSVerifier(url string, opts Options) (*JWKSVerifier, error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warnf("refresh jwks from %s: %v", url, err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	return newJWKSVerifier(jwks, opts), nil
}

// NewStaticJWKSVerifier uses a fixed key set.
func NewStaticJWKSVerifier(raw json.RawMessage, opts Options) (*JWKSVerifier, error) {
	jwks, err := keyfunc.NewJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}
	return newJWKSVerifier(jwks, opts), nil
}

func newJWKSVerifier(jwks *keyfunc.JWKS, opts Options) *JWKSVerifier {
	return &JWKSVerifier{
		jwks:   jwks,
		parser: opts.parser(jwt.SigningMethodRS256.Alg(), jwt.SigningMethodES256.Alg()),
	}
}

func (v *JWKSVerifier) Verify(_ context.Context, token string) (string, error) {
	return subject(v.parser, token, v.jwks.Keyfunc)
}

// Close stops the background refresh.
func (v *JWKSVerifier) Close() {
	v.jwks.EndBackground()
}

// IssueToken signs an HS256 token for subject. Intended for local development and tests.
func IssueToken(secret, subject string, opts Options, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    opts.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{opts.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
