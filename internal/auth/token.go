package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid. There is no revocation
// store; signature plus the embedded window is the whole session model.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the token payload. The audience is declared here as a plain
// string so the encoded payload carries `"aud":"..."` rather than a
// single-element array; existing clients decode the payload directly.
type Claims struct {
	Aud   string    `json:"aud"`
	Roles RoleFlags `json:"roles"`
	jwt.RegisteredClaims
}

// GetAudience satisfies jwt.Claims for the flattened audience field.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings{c.Aud}, nil
}

// Codec issues and verifies the signed bearer tokens. Tokens are standard
// three-segment HS256 JWTs with one deliberate twist: the signing key is
// not the global secret itself but a key derived per issuance, so every
// token is signed with material bound to its own (subject, issuedAt) pair.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewCodec(secret, issuer, audience string) *Codec {
	return &Codec{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      TokenTTL,
		now:      time.Now,
	}
}

// signingKey derives the per-token HMAC key:
// base64std(HMAC-SHA256(globalSecret, subject||issuedAt)), with the ASCII
// bytes of the base64 string used as key material. Verification recomputes
// the key from the claim's own subject and iat; keys are never stored, and
// the derivation is part of the wire contract with previously issued tokens.
func (c *Codec) signingKey(subject string, issuedAt int64) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(subject + strconv.FormatInt(issuedAt, 10)))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// Issue builds and signs a token for an authenticated identity. Returns the
// compact token and its expiry as a Unix timestamp.
func (c *Codec) Issue(id Identity) (string, int64, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	claims := &Claims{
		Aud:   c.audience,
		Roles: id.Flags(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.signingKey(id.UserID, now.Unix()))
	if err != nil {
		return "", 0, err
	}
	return signed, exp.Unix(), nil
}

// Verify decodes and validates a compact token and returns the identity it
// asserts. Failures are reported as the typed errors in errors.go.
func (c *Codec) Verify(token string) (Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		cl := t.Claims.(*Claims)
		if cl.Subject == "" || cl.IssuedAt == nil {
			return nil, ErrMalformedToken
		}
		// The key is recomputed from the claim's own fields, not looked up.
		return c.signingKey(cl.Subject, cl.IssuedAt.Unix()), nil
	})
	if err != nil {
		return Identity{}, classifyTokenError(err)
	}

	return Identity{
		Authenticated:   true,
		UserID:          claims.Subject,
		IsFounder:       claims.Roles.Founder,
		IsAdmin:         claims.Roles.Admin,
		IsInvestor:      claims.Roles.Investor,
		IsCuriousPerson: claims.Roles.Curious,
	}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, ErrMalformedToken), errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrInvalidIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrInvalidAudience
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrInvalidToken
	}
}
