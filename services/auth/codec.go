package auth

import (
	"errors"
	"time"

	"cayo/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("credential invalid")
	ErrExpired = errors.New("credential expired")
)

// Identity is the payload every session credential carries.
type Identity struct {
	ID       string      `json:"id"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type claims struct {
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
	Name     string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 session credentials.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; tests use it to age credentials.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) Issue(id Identity) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:     id.Role,
		Username: id.Username,
		Name:     id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse returns ErrExpired past the validity window and ErrInvalid for
// anything else that does not check out.
func (c *Codec) Parse(token string) (Identity, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpired
		}
		return Identity{}, ErrInvalid
	}
	if cl.Subject == "" || !cl.Role.Valid() {
		return Identity{}, ErrInvalid
	}
	return Identity{ID: cl.Subject, Role: cl.Role, Username: cl.Username, Name: cl.Name}, nil
}
