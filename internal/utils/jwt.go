package utils // package utils provides helpers for session tokens, hashing and ids

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Session verification failures. Both surface to clients as the same 401;
// the distinction exists so the middleware can log expiry separately from
// tampering.
var (
	ErrTokenExpired = errors.New("session token expired")
	ErrTokenInvalid = errors.New("session token invalid")
)

// SessionClaims is the decoded claim set of a session token: who the caller
// is and what role the access policy should evaluate.
type SessionClaims struct {
	UserID   uint64
	Username string
	Role     string
	Expires  time.Time
}

// NewSessionToken builds and signs an HS256 JWT for a user. The ttl is
// supplied in hours and is expected to be at most 24; config.Load enforces
// the cap. Claims: subject (sub), username, role, expiration (exp) and
// issued at (iat).
func NewSessionToken(secret string, userID uint64, username, role string, ttlHours int) (string, time.Time, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseSessionToken verifies signature and expiry and returns the embedded
// claims. A tampered or expired token is rejected, never repaired: callers
// get ErrTokenExpired or ErrTokenInvalid and nothing else.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrTokenExpired
		}
		return SessionClaims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return SessionClaims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrTokenInvalid
	}

	var sc SessionClaims
	// JWT numbers decode as float64.
	if sub, ok := mc["sub"].(float64); ok {
		sc.UserID = uint64(sub)
	}
	if sc.UserID == 0 {
		return SessionClaims{}, ErrTokenInvalid
	}
	sc.Username, _ = mc["username"].(string)
	if role, ok := mc["role"].(string); ok && role != "" {
		sc.Role = role
	} else {
		return SessionClaims{}, ErrTokenInvalid
	}
	if exp, ok := mc["exp"].(float64); ok {
		sc.Expires = time.Unix(int64(exp), 0).UTC()
	}
	return sc, nil
}
