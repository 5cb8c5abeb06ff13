package main

import (
	"github.com/polok-dev98/agentpro/internal/server"
	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/logger"
)

func main() {
	util.LoadEnv()

	logger.Init(logger.Options{
		Debug:  util.GetEnvBool("DEBUG", false),
		Prefix: "server",
	})

	server.Init()
}
