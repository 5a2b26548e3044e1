package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the shortest HS256 signing secret accepted.
const MinSecretLength = 32

var (
	ErrWeakSecret   = errors.New("jwt secret must be at least 32 bytes")
	ErrInvalidToken = errors.New("invalid token")
)

// JWTManager issues and checks session tokens. Each token snapshots the
// user's password watermark; Validate rejects tokens whose snapshot is older
// than the current watermark.
type JWTManager struct {
	secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive, got %s", ttl)
	}
	return &JWTManager{secret: []byte(secret), TTL: ttl, Now: time.Now}, nil
}

type Claims struct {
	UserID            string `json:"uid"`
	PasswordChangedAt int64  `json:"pwd_changed_at"`
	jwt.RegisteredClaims
}

// Watermark normalizes a password-change time to the precision carried in tokens.
func Watermark(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Issue signs a token for the user. The subject is the email.
func (m *JWTManager) Issue(userID, email string, passwordChangedAt time.Time) (string, time.Time, error) {
	now := m.Now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		UserID:            userID,
		PasswordChangedAt: Watermark(passwordChangedAt).UnixMicro(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Parse verifies signature and expiry and returns the claims.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.Now), jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractIdentity returns the token subject (the user's email).
func (m *JWTManager) ExtractIdentity(tokenStr string) (string, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Validate reports whether the token belongs to email and was issued at or
// after the given password watermark.
func (m *JWTManager) Validate(tokenStr, email string, watermark time.Time) bool {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return false
	}
	if claims.Subject != email {
		return false
	}
	return claims.PasswordChangedAt >= Watermark(watermark).UnixMicro()
}

// TokenFingerprint is the hex SHA-256 of a raw token, used as the revocation key.
func TokenFingerprint(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return hex.EncodeToString(sum[:])
}
