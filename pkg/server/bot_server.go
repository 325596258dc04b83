package server

import (
	"fmt"

	"github.com/gokubot/goku/pkg/config"
	"github.com/gokubot/goku/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	BotServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	BotServer struct {
		*BaseServer
	}
)

func NewBotServer(di BotServerDI) *BotServer {
	return &BotServer{
		BaseServer: NewBaseServer(di.Config, di.Logger).WithRouters(di.Routers...),
	}
}

func (s *BotServer) Run() error {
	addr := fmt.Sprintf(":%d", s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting bot server")
	return s.Router.Listen(addr)
}

func (s *BotServer) Shutdown() error {
	return s.Router.Shutdown()
}
