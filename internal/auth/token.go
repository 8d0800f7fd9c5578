package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/apperr"
)

const (
	msgMalformedHeader  = "missing or malformed authorization header"
	msgInvalidToken     = "invalid token"
	msgExpiredToken     = "token expired"
	msgMalformedPayload = "malformed token payload"
)

// Session is the verified claim carried by a bearer token.
type Session struct {
	UserID    string
	CompanyID string
	Role      string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens with a single shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of t that reads the current time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	clone := *t
	clone.now = now
	return &clone
}

func (t *Tokens) Issue(userID, companyID, role, email string) (string, Session, error) {
	issued := t.now().Truncate(time.Second)
	session := Session{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		Email:     email,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(t.ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", Session{}, err
	}
	return signed, session, nil
}

// Authenticate turns an Authorization header value into a Session. Every
// failure is an apperr.Unauthenticated; an expired token is reported with
// its own message.
func (t *Tokens) Authenticate(header string) (Session, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return Session{}, apperr.Unauthorized(msgMalformedHeader)
	}

	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, apperr.Unauthorized(msgExpiredToken)
		}
		return Session{}, apperr.Unauthorized(msgInvalidToken)
	}
	if strings.TrimSpace(c.UserID) == "" || strings.TrimSpace(c.CompanyID) == "" {
		return Session{}, apperr.Unauthorized(msgMalformedPayload)
	}

	session := Session{
		UserID:    c.UserID,
		CompanyID: c.CompanyID,
		Role:      c.Role,
		Email:     c.Email,
	}
	if c.IssuedAt != nil {
		session.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		session.ExpiresAt = c.ExpiresAt.Time
	}
	return session, nil
}

// BearerToken extracts the credential from "Bearer <token>". The scheme is
// matched case-insensitively.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
