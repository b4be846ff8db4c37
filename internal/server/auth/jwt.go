package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/common"
)

// Claims are the registered claims plus the role and linked employee id.
// The "eid" claim is omitted for users without an employee row.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	EID  string `json:"eid,omitempty"`
}

// TokenManager signs and verifies bearer tokens with a process-wide HMAC
// secret and issuer. Both are immutable after construction.
type TokenManager struct {
	secret   []byte
	issuer   string
	validity time.Duration
}

func NewTokenManager(secret []byte, issuer string, validity time.Duration) *TokenManager {
	return &TokenManager{secret: secret, issuer: issuer, validity: validity}
}

// Sign mints a token with subject=userID, the role claim, and, when the user
// is linked to an employee, the eid claim.
func (m *TokenManager) Sign(userID uuid.UUID, role Role, employeeID *uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
		Role: string(role),
	}
	if employeeID != nil {
		claims.EID = employeeID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token (signature, expiry, issuer) and
// converts its claims into a Principal. Any failure yields
// common.ErrInvalidToken; the HTTP layer treats that as unauthenticated
// rather than an error.
func (m *TokenManager) Verify(tokenString string) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	role, ok := ParseRole(claims.Role)
	if !ok {
		return nil, common.ErrInvalidToken
	}

	p := &Principal{UserID: userID, Role: role}
	if claims.EID != "" {
		eid, err := uuid.Parse(claims.EID)
		if err != nil {
			return nil, common.ErrInvalidToken
		}
		p.EmployeeID = &eid
	}
	return p, nil
}
