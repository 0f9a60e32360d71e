package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vaticano/paroquia-auth/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	UserHandler *UserHTTP
	Bearer      *middleware.BearerAuth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Use(d.Bearer.Authenticate)

	auth := e.Group("/api/auth")
	auth.POST("/bootstrap", d.AuthHandler.Bootstrap)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.PUT("/me/password", d.AuthHandler.ChangePassword, d.Bearer.RequireAuth)

	users := e.Group("/api/users", d.Bearer.RequireAuth)
	users.GET("", d.UserHandler.List)
	users.POST("", d.UserHandler.Create)
	users.GET("/:id", d.UserHandler.Get)
	users.PUT("/:id", d.UserHandler.Update)
	users.DELETE("/:id", d.UserHandler.Delete)
	users.POST("/:id/reset-password", d.UserHandler.ResetPassword)
}
