package webserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stake-plus/memberhub/src/api/types"
)

const identityKey = "identity"

// Identity is the caller as asserted by the auth provider's token.
type Identity struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Role            types.Role `json:"role"`
	ProfileImageURL string     `json:"profileImageUrl"`
}

func (id Identity) User() *types.User {
	return &types.User{
		ID:              id.ID,
		Email:           id.Email,
		FirstName:       id.FirstName,
		LastName:        id.LastName,
		Role:            id.Role,
		ProfileImageURL: id.ProfileImageURL,
	}
}

type claims struct {
	Email           string     `json:"email,omitempty"`
	FirstName       string     `json:"firstName,omitempty"`
	LastName        string     `json:"lastName,omitempty"`
	Role            types.Role `json:"role,omitempty"`
	ProfileImageURL string     `json:"profileImageUrl,omitempty"`
	jwt.RegisteredClaims
}

func JWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "missing bearer token"})
			return
		}
		id, err := parseToken(h[7:], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "invalid token"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func parseToken(raw string, secret []byte) (Identity, error) {
	var cl claims
	tok, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, err
	}
	if !tok.Valid || cl.Subject == "" {
		return Identity{}, errors.New("token has no subject")
	}
	role := cl.Role
	switch role {
	case types.RoleAdmin, types.RoleLeadership, types.RoleMember:
	default:
		role = types.RoleMember
	}
	return Identity{
		ID:              cl.Subject,
		Email:           cl.Email,
		FirstName:       cl.FirstName,
		LastName:        cl.LastName,
		Role:            role,
		ProfileImageURL: cl.ProfileImageURL,
	}, nil
}

// IssueToken signs an HS256 token for id. Production tokens come from the
// auth provider; this serves the token command and tests.
func IssueToken(secret []byte, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	cl := claims{
		Email:           id.Email,
		FirstName:       id.FirstName,
		LastName:        id.LastName,
		Role:            id.Role,
		ProfileImageURL: id.ProfileImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(secret)
}

func identityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func subject(c *gin.Context) string {
	id, _ := identityFrom(c)
	return id.ID
}
