// ABOUTME: JWT issuing and verification for API credentials
// ABOUTME: HS256 signing of caller-supplied claims with a 7-day lifetime

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the credential lifetime. There is no refresh mechanism; expiry
// forces a fresh login.
const TokenTTL = 7 * 24 * time.Hour

// MinSecretLength is the minimum signing secret length in bytes.
const MinSecretLength = 32

// Token errors
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrSecretTooShort = errors.New("signing secret too short")
)

// Issuer mints and verifies HS256-signed credentials. The claims payload is
// whatever the caller supplied at login; by convention it carries an "email"
// field identifying the account.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer creates an Issuer with the given signing secret.
func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrSecretTooShort, MinSecretLength, len(secret))
	}
	return &Issuer{secret: secret, now: time.Now}, nil
}

// Issue signs the given claims, stamping issued-at and a 7-day expiry. The
// caller's claims are copied, not mutated.
func (i *Issuer) Issue(claims map[string]any) (string, error) {
	now := i.now()

	mc := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(TokenTTL).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify validates a credential string and returns the identity it carries.
// Expired tokens and tokens signed with a different secret are rejected.
func (i *Issuer) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	// The email claim is a convention, not a guarantee. An identity without
	// one still authenticates but will fail any role or ownership check.
	email, _ := claims["email"].(string)

	return &Identity{Email: email, Claims: claims}, nil
}
