package auth

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/models"
)

// RequireUser parses the accessToken cookie and puts userID/role into the
// echo context for the handlers.
func RequireUser(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseAccessCookie(c, jwtSecret)
			if err != nil {
				return err
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}

func RequireAdmin(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseAccessCookie(c, jwtSecret)
			if err != nil {
				return err
			}
			if role, _ := claims["role"].(string); role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}

// UserID reads the identity RequireUser stored on the context.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

func parseAccessCookie(c echo.Context, jwtSecret []byte) (jwt.MapClaims, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}
	if cookie.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	if _, ok := claims["sub"].(float64); !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	return claims, nil
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	c.Set("userID", uint(claims["sub"].(float64)))
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}
