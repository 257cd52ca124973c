package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/golang-jwt/jwt/v4"
)

const (
	UseAccess  = "access"
	UseRefresh = "refresh"
	UseReset   = "reset"

	AccessTTL  = time.Hour
	RefreshTTL = 30 * 24 * time.Hour
	ResetTTL   = time.Hour

	issuer = "leadflow-crm"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims follows the hosted provider's access token layout: subject, email
// and user_metadata. TokenUse is only set on tokens minted locally.
type Claims struct {
	Email        string              `json:"email"`
	UserMetadata entity.UserMetadata `json:"user_metadata"`
	TokenUse     string              `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

// Signer mints and checks HS256 tokens with a shared secret.
type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret), now: time.Now}
}

func (s *Signer) Sign(id entity.Identity, use string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims := &Claims{
		Email: id.Email,
		UserMetadata: entity.UserMetadata{
			Name:      id.Name,
			Role:      id.Role,
			AvatarURL: id.AvatarURL,
		},
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse validates signature and expiry and checks the token is meant for one of uses.
func (s *Signer) Parse(token string, uses ...string) (*Claims, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	use := claims.TokenUse
	if use == "" {
		use = UseAccess
	}
	for _, u := range uses {
		if u == use {
			return claims, nil
		}
	}
	return nil, ErrInvalidToken
}

// Verifier turns bearer access tokens into identities.
type Verifier struct {
	signer *Signer
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{signer: NewSigner(secret)}
}

func (v *Verifier) Verify(token string) (entity.Identity, error) {
	claims, err := v.signer.Parse(token, UseAccess)
	if err != nil {
		return entity.Identity{}, entity.ErrUnauthenticated
	}
	return claims.Identity(), nil
}

func (c *Claims) Identity() entity.Identity {
	return entity.Identity{
		UserID:    c.Subject,
		Email:     c.Email,
		Name:      c.UserMetadata.Name,
		Role:      c.UserMetadata.Role,
		AvatarURL: c.UserMetadata.AvatarURL,
	}
}
