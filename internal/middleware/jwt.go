package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/syoh89/lipcoding-competition/internal/utils"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id" // uint64
	CtxRole   = "role"    // "mentor" or "mentee"
	CtxName   = "name"    // display name from the token
	CtxEmail  = "email"   // email from the token
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the authenticated identity into the request context.
// Tokens must be HS256, signed with secret, carry the expected issuer
// and audience, and hold a numeric subject. Handlers read the identity
// via c.Get(CtxUserID) and c.Get(CtxRole); authorization decisions use
// only the token claims, never a fresh store read.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			},
				jwt.WithIssuer(utils.TokenIssuer),
				jwt.WithAudience(utils.TokenAudience),
				jwt.WithExpirationRequired(),
			)
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			userID, err := strconv.ParseUint(sub, 10, 64)
			if err != nil || userID == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			role, _ := claims["role"].(string)
			name, _ := claims["name"].(string)
			email, _ := claims["email"].(string)

			c.Set(CtxUserID, userID)
			c.Set(CtxRole, role)
			c.Set(CtxName, name)
			c.Set(CtxEmail, email)
			return next(c)
		}
	}
}
