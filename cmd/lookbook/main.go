// Command lookbook opens the product overlay editor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phanxgames/lookbook"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "lookbook.yaml", "path to the YAML config file")
	script := flag.String("script", "", "replay an input script on start")
	debug := flag.Bool("debug", false, "enable debug mode")
	flag.Parse()

	cfg, err := lookbook.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookbook: %v\n", err)
		os.Exit(1)
	}
	if *script != "" {
		cfg.Script.Path = *script
	}
	if *debug {
		cfg.Debug = true
	}

	log, err := lookbook.NewLogger(cfg.Logger, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookbook: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := lookbook.Run(cfg, log); err != nil {
		log.Error("lookbook exited", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}
