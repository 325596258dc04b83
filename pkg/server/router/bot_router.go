package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	handlers "github.com/gokubot/goku/pkg/handlers/http"
	"github.com/gokubot/goku/pkg/server/middleware"
)

const (
	APIPrefix     = "/api/v1"
	RootPath      = "/"
	HealthPath    = "/health"
	StatusPath    = "/status"
	VersionPath   = "/version"
	MessagesPath  = "/messages"
	CommandsPath  = "/commands/:command"
	UserStatsPath = "/users/:user_id/stats"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type ServerRouter interface {
	BuildRoutes(router *fiber.App) error
}

type botRouter struct {
	middlewareTransport    *middleware.Transport
	apiMiddlewareTransport *middleware.Transport
	handlerTransport       handlers.HandlerTransport
}

// NewBotRouter mounts middlewareTransport on every route and
// apiMiddlewareTransport on the /api/v1 group only.
func NewBotRouter(
	middlewareTransport *middleware.Transport,
	apiMiddlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &botRouter{
		middlewareTransport:    middlewareTransport,
		apiMiddlewareTransport: apiMiddlewareTransport,
		handlerTransport:       handlerTransport,
	}
}

func (r *botRouter) BuildRoutes(router *fiber.App) error {
	t := r.handlerTransport
	if t.PostMessageHandler == nil || t.PostCommandHandler == nil || t.GetUserStatsHandler == nil {
		return ErrInvalidHandlerTransport
	}

	r.middlewareTransport.Mount(router)

	// liveness endpoints polled by the hosting platform
	if t.RootHandler != nil {
		router.Get(RootPath, t.RootHandler.Handle)
	}
	if t.HealthHandler != nil {
		router.Get(HealthPath, t.HealthHandler.Handle)
	}
	if t.StatusHandler != nil {
		router.Get(StatusPath, t.StatusHandler.Handle)
	}
	if t.VersionHandler != nil {
		router.Get(VersionPath, t.VersionHandler.Handle)
	}

	v1 := router.Group(APIPrefix)
	r.apiMiddlewareTransport.Mount(v1)
	{
		v1.Post(MessagesPath, t.PostMessageHandler.Handle)
		v1.Post(CommandsPath, t.PostCommandHandler.Handle)
		v1.Get(UserStatsPath, t.GetUserStatsHandler.Handle)
	}
	return nil
}
