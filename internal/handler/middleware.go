package handler

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/service"
)

const userContextKey = "auth.user"

// JWTAuth парсит bearer-токен и резолвит subject в пользователя.
// Выпуск токенов — забота внешнего сервиса аутентификации; дальше по ядру
// пользователь передаётся явным аргументом, не неявным контекстом запроса.
func JWTAuth(secret string, identity *service.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			raw := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
			}

			user, err := identity.Resolve(c.Request().Context(), sub)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// currentUser достаёт пользователя, положенного JWTAuth.
func currentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(userContextKey).(*model.User)
	return u, ok
}
