package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/cadxml/internal/config"
	"github.com/woozymasta/cadxml/internal/logger"
	"github.com/woozymasta/cadxml/internal/server"
)

const defaultConfigFile = "config.yaml"

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile     string `short:"c" long:"config"     env:"CONFIG_FILE"      description:"Path to configuration file" default:"config.yaml"`
	Addr           string `short:"a" long:"addr"       env:"LISTEN_ADDRESS"   description:"Address to listen on, overrides config"`
	Port           int    `short:"p" long:"port"       env:"LISTEN_PORT"      description:"Port to listen on, overrides config"`
	MaxUploadBytes int64  `short:"m" long:"max-upload" env:"MAX_UPLOAD_BYTES" description:"Upload size limit in bytes, overrides config"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config, the default file may be absent
	cfg, err := config.LoadOptional(opts.ConfigFile, opts.ConfigFile == defaultConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Addr != "" {
		cfg.Listen = opts.Addr
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}
	if opts.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = opts.MaxUploadBytes
	}

	handler := server.NewRouter(server.NewServerContext(cfg))

	listenAddr := fmt.Sprintf("%s:%d", cfg.Listen, cfg.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Strs("formats", cfg.Formats).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
