// Package token issues and verifies the HS256 bearer tokens used by every
// service.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/forexpro/backend/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identifies the caller. Demo sessions carry a DemoID and no UserID.
type Claims struct {
	UserID int64      `json:"id,omitempty"`
	DemoID string     `json:"demo_id,omitempty"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	now    func() time.Time
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for a stored user.
func (m *Manager) Issue(userID int64, role model.Role, ttl time.Duration) (string, error) {
	return m.sign(Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(userID, 10),
		},
	}, ttl)
}

// IssueDemo signs a token for an unpersisted demo session.
func (m *Manager) IssueDemo(demoID string, ttl time.Duration) (string, error) {
	return m.sign(Claims{
		DemoID: demoID,
		Role:   model.RoleDemo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: demoID,
		},
	}, ttl)
}

func (m *Manager) sign(c Claims, ttl time.Duration) (string, error) {
	now := m.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the claims.
func (m *Manager) Parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Role == model.RoleDemo {
		if claims.DemoID == "" {
			return nil, ErrInvalidToken
		}
	} else if claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
