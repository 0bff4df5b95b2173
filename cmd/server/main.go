package main

import (
	_ "github.com/lifedesigner21/whole-pod-sub000/docs"
	"github.com/lifedesigner21/whole-pod-sub000/internal/config"
	"github.com/lifedesigner21/whole-pod-sub000/internal/logging"
	"github.com/lifedesigner21/whole-pod-sub000/internal/server"
)

// @title           WholePod API
// @version         1.0
// @description     API for agency project management: projects, milestones, tasks and collaboration.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logging.Init(cfg.LogFile)

	s, err := server.Init(cfg)
	if err != nil {
		logging.L().WithError(err).Fatal("server initialization failed")
	}

	s.Run()
}
