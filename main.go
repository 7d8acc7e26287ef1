package main

import (
	"os"

	_ "riverbird-standalone/cmd"
	"riverbird-standalone/cmd/root"
	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/logger"
)

func main() {
	// The standalone command re-initializes the logger once the bundle is
	// loaded; this covers the short CLI commands (units, config, version).
	isDaemonMode := len(os.Args) > 1 && os.Args[1] == "standalone"
	logger.InitLogger(&config.LogConfig{Path: "console", Level: "warn"}, isDaemonMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
