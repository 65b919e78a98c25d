package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/config"
	"github.com/woozymasta/cadxml/internal/export"
	"github.com/woozymasta/cadxml/internal/logger"
	"github.com/woozymasta/cadxml/internal/pipeline"
	"github.com/woozymasta/cadxml/internal/preview"
)

const defaultConfigFile = "config.yaml"

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input       []string `short:"i" long:"in"          description:"Input XML file, repeatable. Reads stdin if empty"`
	Output      string   `short:"o" long:"out"         env:"OUTPUT_DIR"  description:"Output directory" default:"."`
	Format      []string `short:"f" long:"format"      description:"Output format, repeatable. Defaults to config formats" choice:"json" choice:"csv" choice:"kml" choice:"txt" choice:"dxf" choice:"geojson" choice:"yaml"`
	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Files processed in parallel, overrides config"`
	Stdout      bool     `short:"s" long:"stdout"      description:"Write the single requested format to stdout"`
	Preview     bool     `short:"P" long:"preview"     description:"Also render a preview image per file"`
	Force       bool     `short:"F" long:"force"       description:"Overwrite existing output files"`
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

	opts.Logger.Setup()

	cfg, err := config.LoadOptional(opts.ConfigFile, opts.ConfigFile == defaultConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}

	formats := cfg.ExportFormats()
	if len(opts.Format) > 0 {
		formats = nil
		for _, name := range opts.Format {
			f, err := export.ParseFormat(name)
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid format")
			}
			formats = append(formats, f)
		}
	}

	p := pipeline.New()

	// stdin or explicit stdout mode: one document, one format
	if len(opts.Input) == 0 || opts.Stdout {
		if err := toStdout(p, opts, formats, os.Stdin, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Conversion failed")
		}
		return
	}

	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", opts.Output).Msg("Failed to create output directory")
	}

	log.Info().
		Int("files", len(opts.Input)).
		Int("concurrency", cfg.Concurrency).
		Str("out", opts.Output).
		Msg("Starting conversion")

	results := p.ProcessBatch(opts.Input, cfg.Concurrency)
	out := newOutputWriter(opts, cfg.Preview)
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			log.Error().Err(res.Err).Str("file", res.Path).Msg("Failed to process file")
			continue
		}

		summary := pipeline.Summarize(res.Record)
		log.Info().
			Str("file", res.Path).
			Str("cadastral_number", summary.CadastralNumber).
			Str("system", string(summary.System)).
			Int("points", summary.Points).
			Int("object_parts", summary.ObjectParts).
			Float64("area", summary.Area).
			Float64("declared_area", summary.DeclaredArea).
			Dur("duration", res.Duration).
			Msg("File processed")

		if err := out.write(*res, formats); err != nil {
			log.Error().Err(err).Str("file", res.Path).Msg("Failed to write outputs")
			res.Err = err
		}
	}

	if failed := pipeline.Failed(results); failed > 0 {
		log.Error().Int("failed", failed).Int("total", len(results)).Msg("Conversion finished with errors")
		os.Exit(1)
	}
	log.Info().Int("total", len(results)).Msg("Conversion finished successfully")
}

func toStdout(p *pipeline.Pipeline, opts Options, formats []export.Format, stdin io.Reader, stdout io.Writer) error {
	if len(opts.Input) > 1 {
		return errors.New("--stdout accepts a single input")
	}
	if len(formats) != 1 {
		return fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
	}

	var (
		rec *cadastre.Record
		err error
	)
	if len(opts.Input) == 1 {
		rec, err = p.ProcessFile(opts.Input[0])
	} else {
		var data []byte
		data, err = io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		rec, err = p.Process(data)
	}
	if err != nil {
		return err
	}

	data, err := export.Encode(formats[0], rec, export.Options{})
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

// outputWriter writes converted files for one batch run. Paths claimed by
// an earlier input of the same run are never reused.
type outputWriter struct {
	dir         string
	force       bool
	preview     bool
	previewOpts preview.Options

	claimed map[string]string // output path -> input path
}

func newOutputWriter(opts Options, previewOpts preview.Options) *outputWriter {
	return &outputWriter{
		dir:         opts.Output,
		force:       opts.Force,
		preview:     opts.Preview,
		previewOpts: previewOpts,
		claimed:     make(map[string]string),
	}
}

func (w *outputWriter) write(res pipeline.Result, formats []export.Format) error {
	var errs []error

	for _, f := range formats {
		data, err := export.Encode(f, res.Record, export.Options{})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := w.claim(export.Filename(f, res.Record, res.Path), res.Path)
		if err := writeFile(path, data, w.force); err != nil {
			errs = append(errs, err)
		}
	}

	if w.preview {
		var buf bytes.Buffer
		img := preview.Render(res.Record, w.previewOpts.Size)
		if err := preview.Encode(&buf, img, w.previewOpts); err != nil {
			errs = append(errs, err)
		} else {
			path := w.claim(sourceStem(res.Path)+"."+w.previewOpts.Format, res.Path)
			if err := writeFile(path, buf.Bytes(), w.force); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// claim returns the output path for name. When another input already took
// it in this run, the source stem and then a counter are appended.
func (w *outputWriter) claim(name, source string) string {
	path := filepath.Join(w.dir, name)
	if owner, ok := w.claimed[path]; !ok || owner == source {
		w.claimed[path] = source
		return path
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext) + "_" + sourceStem(source)
	path = filepath.Join(w.dir, base+ext)
	for i := 2; ; i++ {
		if _, ok := w.claimed[path]; !ok {
			break
		}
		path = filepath.Join(w.dir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}

	log.Warn().
		Str("file", source).
		Str("name", name).
		Str("path", path).
		Msg("Output name already used in this run, renamed")

	w.claimed[path] = source
	return path
}

func sourceStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var errOutputExists = errors.New("output exists (use --force)")

func writeFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errOutputExists)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Output written")
	return nil
}
