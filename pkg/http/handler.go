package http

import "github.com/labstack/echo/v4"

// Handler is what the server needs from a route-owning component.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
