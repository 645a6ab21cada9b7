package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey = "user_id"
	emailKey  = "email"
)

var errMissingToken = errors.New("no bearer token")

// Verifier checks HMAC-signed access tokens issued by the identity provider.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Identity is the caller described by a verified token. Email is empty when
// the token carries no email claim.
type Identity struct {
	UserID string
	Email  string
}

// UserID validates tokenStr and returns its subject.
func (v *Verifier) UserID(tokenStr string) (string, error) {
	id, err := v.Identity(tokenStr)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}

func (v *Verifier) Identity(tokenStr string) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return Identity{}, err
	}
	if sub == "" {
		return Identity{}, errors.New("token has no subject")
	}

	email, _ := claims["email"].(string)
	return Identity{UserID: sub, Email: strings.TrimSpace(email)}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller id and email in the gin context. Websocket clients may pass the
// token as the access_token query parameter instead.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		id, err := v.Identity(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, id.UserID)
		c.Set(emailKey, id.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token, nil
		}
	}
	if token := c.Query("access_token"); token != "" {
		return token, nil
	}
	return "", errMissingToken
}

// UserID returns the authenticated caller id, or "" outside the middleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SetUserID stores the caller id. Used by tests that bypass the middleware.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}

// Email returns the caller's email claim, or "" when the token had none.
func Email(c *gin.Context) string {
	return c.GetString(emailKey)
}
