package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gravadigital/encuentro-api/internal/apperror"
)

// Claims is the JWT payload carried by every issued token.
type Claims struct {
	IsAdmin bool `json:"adm"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens. It is a pure
// function of the token bytes, the secret key and the clock: it never touches
// the network or the store, so gated requests stay self-contained.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service. The secret is required; the
// caller fails startup if it is absent.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service requires a signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("token service requires a positive ttl")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the clock, used by tests to pin expiry boundaries.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for the principal with expiry = now + ttl.
func (s *TokenService) Issue(p Principal) (string, error) {
	now := s.now()
	claims := &Claims{
		IsAdmin: p.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, err, "failed to sign token")
	}
	return signed, nil
}

// Verify decodes and checks a token. Expired and malformed tokens are
// distinguished by kind; both surface as 401 at the gateway. The expiry
// boundary is inclusive: a token is rejected once now >= exp.
func (s *TokenService) Verify(tokenString string) (Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperror.New(apperror.KindExpiredToken, "token has expired")
		}
		return Principal{}, apperror.Wrap(apperror.KindMalformedToken, err, "token is invalid")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Principal{}, apperror.New(apperror.KindMalformedToken, "token is invalid")
	}

	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return Principal{}, apperror.New(apperror.KindExpiredToken, "token has expired")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, apperror.New(apperror.KindMalformedToken, "token subject is not a valid id")
	}

	return Principal{ID: id, IsAdmin: claims.IsAdmin}, nil
}
