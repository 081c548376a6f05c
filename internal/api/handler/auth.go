package handler

import (
	"complainthub/backend/internal/models"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	actorKey        = "actor"
	defaultTokenTTL = 72 * time.Hour
)

// Claims are the token claims: the subject is the user id.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 bearer tokens.
type Authenticator struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{
		Secret: []byte(secret),
		Issuer: issuer,
		TTL:    defaultTokenTTL,
		Now:    time.Now,
	}
}

// GenerateToken signs a token for userID acting with role.
func (a *Authenticator) GenerateToken(userID string, role models.Role) (string, error) {
	now := a.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// ParseToken verifies tokenString and returns the actor it names.
func (a *Authenticator) ParseToken(tokenString string) (models.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return a.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.Issuer),
		jwt.WithTimeFunc(a.Now),
	)
	if err != nil {
		return models.Actor{}, err
	}
	if claims.Subject == "" {
		return models.Actor{}, errors.New("token has no subject")
	}
	// User ids are uuid columns in the store.
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return models.Actor{}, errors.New("token subject is not a user id")
	}
	if !claims.Role.Valid() {
		return models.Actor{}, errors.New("token carries an unknown role")
	}
	return models.Actor{ID: claims.Subject, Role: claims.Role}, nil
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	// Browsers cannot set headers on a WebSocket handshake.
	if websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

// Middleware resolves the actor of every request or aborts with 401.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token missing"})
			return
		}
		actor, err := a.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token or expired"})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorFrom(c *gin.Context) models.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(models.Actor)
	return actor
}
