package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/studypath-api/internal/session"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// SessionLocalKey is the fiber Locals key holding the resolved session.
const SessionLocalKey = "session"

var errMissingSubject = errors.New("token has no subject")

// JWTProtected validates HMAC bearer tokens and binds the resulting session
// to the request. sub carries the user id and email the account address.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		s, err := ParseSession(tokenString, secret)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", s.UserID)
		c.Locals(SessionLocalKey, s)
		c.SetUserContext(session.NewContext(c.UserContext(), s))

		return c.Next()
	}
}

// ParseSession verifies tokenString and extracts the session claims.
func ParseSession(tokenString, secret string) (session.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return session.Session{}, err
	}
	if !token.Valid {
		return session.Session{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session.Session{}, jwt.ErrTokenInvalidClaims
	}

	s := session.Session{
		UserID: extractUserIDFromClaims(claims),
		Email:  stringClaim(claims, "email"),
	}
	if s.UserID == "" {
		return session.Session{}, errMissingSubject
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time.UTC()
	}
	return s, nil
}

// IssueToken signs a session with an HS256 token. A zero ttl omits exp.
func IssueToken(s session.Session, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{"sub": s.UserID}
	if s.Email != "" {
		claims["email"] = s.Email
	}
	if ttl != 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func extractUserIDFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"sub", "user_id", "id"} {
		raw, ok := claims[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if id := strings.TrimSpace(v); id != "" {
				return id
			}
		case float64:
			if v > 0 {
				return fmt.Sprintf("%.0f", v)
			}
		}
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}
