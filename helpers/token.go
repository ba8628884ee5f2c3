package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Identity is the normalized caller identity every consumer sees. The two
// legacy token encodings are private parse branches of IdentityFromToken.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type TokenIssuer struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenIssuer(secret string, accessExpiry, refreshExpiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GenerateTokens mints an access/refresh token pair. The subject claim is the
// user id string; email and role ride along as side claims.
func (ti *TokenIssuer) GenerateTokens(userID, email, role string) (string, string, error) {
	access, err := ti.sign(userID, email, role, "access", ti.accessExpiry)
	if err != nil {
		return "", "", err
	}
	refresh, err := ti.sign(userID, email, role, "refresh", ti.refreshExpiry)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// GenerateAccessToken mints a fresh access token only, used by the refresh
// endpoint.
func (ti *TokenIssuer) GenerateAccessToken(userID, email, role string) (string, error) {
	return ti.sign(userID, email, role, "access", ti.accessExpiry)
}

func (ti *TokenIssuer) sign(userID, email, role, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"type":  tokenType,
		"iat":   now.Unix(),
		"exp":   now.Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// IdentityFromToken parses and validates a signed token and returns the
// normalized identity. Two encodings are accepted for backward compatibility:
// the subject claim may be a structured object carrying user_id/email/role
// (legacy), or a bare user id string with email/role as side claims. Any
// parse, signature, or expiry failure yields an error; callers treating
// identity as optional map that error to "anonymous".
func (ti *TokenIssuer) IdentityFromToken(tokenString string) (*Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	// Legacy branch: the whole identity embedded in the subject claim.
	if sub, ok := claims["sub"].(map[string]interface{}); ok {
		id := &Identity{
			UserID: stringClaim(sub, "user_id"),
			Email:  stringClaim(sub, "email"),
			Role:   stringClaim(sub, "role"),
		}
		if id.UserID == "" {
			return nil, errors.New("token subject missing user_id")
		}
		return id, nil
	}

	// Current branch: bare string subject plus side claims.
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token missing subject")
	}
	return &Identity{
		UserID: sub,
		Email:  stringClaim(claims, "email"),
		Role:   stringClaim(claims, "role"),
	}, nil
}

// IsRefreshToken reports whether the given token was minted as a refresh
// token. Access tokens are not accepted on the refresh endpoint.
func (ti *TokenIssuer) IsRefreshToken(tokenString string) bool {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	})
	if err != nil {
		return false
	}
	return stringClaim(claims, "type") == "refresh"
}

func stringClaim(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// MaskToken renders a credential safe for logs: first 10 and last 6
// characters with an ellipsis between. Short values pass through whole.
func MaskToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:10] + "..." + token[len(token)-6:]
}
