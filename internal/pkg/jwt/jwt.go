package jwt

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// SSETokenTTL bounds how long a notice stream token may be used to connect.
const SSETokenTTL = 5 * time.Minute

// Claims are the console-relevant fields of an access token. Tokens are issued
// by the HRIS auth service; the console only verifies them, except for the
// short-lived SSE tokens and development tokens minted here.
type Claims struct {
	UserID  string
	Email   string
	IsAdmin bool
}

type Service interface {
	GenerateAccessToken(claims Claims, ttl time.Duration) (token string, expiresAt int64, err error)
	GenerateSSEToken(claims Claims) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Claims, error)
	ValidateAccessToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims Claims, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(ttl).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":  claims.UserID,
		"email":    claims.Email,
		"is_admin": claims.IsAdmin,
		"type":     "access",
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections, which
// cannot carry an Authorization header from the browser.
func (j *JWTService) GenerateSSEToken(claims Claims) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(SSETokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":  claims.UserID,
		"is_admin": claims.IsAdmin,
		"type":     "sse",
		"exp":      expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(SSETokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns its claims
func (j *JWTService) ValidateSSEToken(tokenString string) (Claims, error) {
	return j.validate(tokenString, "sse")
}

// ValidateAccessToken is used where no jwtauth.Verifier sits in front, such
// as the command line console.
func (j *JWTService) ValidateAccessToken(tokenString string) (Claims, error) {
	return j.validate(tokenString, "access")
}

func (j *JWTService) validate(tokenString, wantType string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(claims)
}

// ClaimsFromMap reads console claims out of a decoded token. user_id is
// required; a missing or non-boolean is_admin means no admin capability.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	userID, ok := m["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	email, _ := m["email"].(string)
	isAdmin, _ := m["is_admin"].(bool)
	return Claims{UserID: userID, Email: email, IsAdmin: isAdmin}, nil
}
