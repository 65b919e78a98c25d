package server

import (
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/cadxml/assets"
	"github.com/woozymasta/cadxml/internal/config"
	"github.com/woozymasta/cadxml/internal/pipeline"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Pipeline  *pipeline.Pipeline
	IndexHTML []byte
	Favicon   []byte
}

// NewServerContext wires the handlers to cfg and the embedded page.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().
		Strs("formats", cfg.Formats).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Str("preview_format", cfg.Preview.Format).
		Msg("Server context initialized")

	return &ServerContext{
		Config:    cfg,
		Pipeline:  pipeline.New(),
		IndexHTML: assets.Index,
		Favicon:   assets.Favicon,
	}
}
