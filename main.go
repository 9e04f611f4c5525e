package main

import (
	"clairity-server/confs"
	"clairity-server/db"
	"clairity-server/logger"
	"clairity-server/server"

	"go.uber.org/zap"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		logger.L().Fatal("error loading config", zap.Error(err))
	}

	// connect to database Postgres
	database, err := db.Connect()
	if err != nil {
		logger.L().Fatal("failed to connect to DB", zap.Error(err))
	}

	// run server
	srv := server.NewServer(database, cfg)
	srv.Start()
}
