// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/export"
	"github.com/woozymasta/cadxml/internal/lookup"
	"github.com/woozymasta/cadxml/internal/pipeline"
	"github.com/woozymasta/cadxml/internal/preview"
	"github.com/woozymasta/cadxml/internal/xmldoc"
)

// User facing error messages.
const (
	msgParseFailed   = "Ошибка парсинга XML файла. Убедитесь, что это корректный XML."
	msgNoFile        = "Файл не передан"
	msgTooLarge      = "Файл слишком большой"
	msgBadFormat     = "Неподдерживаемый формат"
	msgNoNumber      = "Кадастровый номер не указан"
	msgInternalError = "Внутренняя ошибка сервера"
)

// multipart overhead allowed on top of the configured upload limit
const formOverhead = 1 << 20

var errNoFile = errors.New("no file in request")

// upload is a received XML document.
type upload struct {
	Name string
	Data []byte
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleHealth reports liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleFormats lists the export formats.
func (s *ServerContext) HandleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formats": export.Formats(),
		"default": s.Config.Formats,
	})
}

// HandleValidate normalizes a typed cadastral number and checks its shape.
func (s *ServerContext) HandleValidate(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if strings.TrimSpace(number) == "" {
		writeError(w, http.StatusBadRequest, msgNoNumber, "")
		return
	}

	normalized := cadastre.FormatNumberInput(number)
	writeJSON(w, http.StatusOK, map[string]any{
		"number":     number,
		"normalized": normalized,
		"valid":      cadastre.ValidNumber(normalized),
	})
}

// HandleParse returns the processed record with its summary.
func (s *ServerContext) HandleParse(w http.ResponseWriter, r *http.Request) {
	_, rec, ok := s.process(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record":  rec,
		"summary": pipeline.Summarize(rec),
	})
}

// HandleConvert returns the uploaded document in the requested format as a
// download.
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadFormat, err.Error())
		return
	}

	up, rec, ok := s.process(w, r)
	if !ok {
		return
	}

	data, err := export.Encode(format, rec, export.Options{})
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("Failed to encode record")
		writeError(w, http.StatusInternalServerError, msgInternalError, err.Error())
		return
	}

	writeDownload(w, export.ContentType(format), export.Filename(format, rec, up.Name), data)
}

// HandlePlot answers like the parcel search service, using the uploaded XML as
// the data source.
func (s *ServerContext) HandlePlot(w http.ResponseWriter, r *http.Request) {
	_, rec, ok := s.process(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lookup.XMLResponse(rec))
}

// HandlePlotReport returns the plain text plot report of the uploaded XML.
func (s *ServerContext) HandlePlotReport(w http.ResponseWriter, r *http.Request) {
	_, rec, ok := s.process(w, r)
	if !ok {
		return
	}

	resp := lookup.XMLResponse(rec)
	report := lookup.PlotReport(resp, time.Now())
	writeDownload(w, "text/plain; charset=utf-8", lookup.ReportFilename(resp.Data), []byte(report))
}

// HandlePreview renders the uploaded parcel as an image.
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	opts := s.Config.Preview
	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		opts.Format = strings.ToLower(f)
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Неверный размер", err.Error())
			return
		}
		opts.Size = size
	}
	opts.Normalize()
	if opts.Format != preview.FormatWebP && opts.Format != preview.FormatPNG {
		writeError(w, http.StatusBadRequest, msgBadFormat, opts.Format)
		return
	}

	_, rec, ok := s.process(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := preview.Encode(&buf, preview.Render(rec, opts.Size), opts); err != nil {
		log.Error().Err(err).Msg("Failed to encode preview")
		writeError(w, http.StatusInternalServerError, msgInternalError, err.Error())
		return
	}

	w.Header().Set("Content-Type", preview.ContentType(opts.Format))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// process reads the upload and runs the pipeline. On failure the error
// response is already written and ok is false.
func (s *ServerContext) process(w http.ResponseWriter, r *http.Request) (*upload, *cadastre.Record, bool) {
	up, err := s.readUpload(w, r)
	if err != nil {
		status, msg := uploadErrorStatus(err)
		writeError(w, status, msg, err.Error())
		return nil, nil, false
	}

	rec, err := s.Pipeline.Process(up.Data)
	if err != nil {
		if xmldoc.IsParseError(err) {
			log.Debug().Err(err).Str("file", up.Name).Msg("Rejected malformed XML")
			writeError(w, http.StatusUnprocessableEntity, msgParseFailed, err.Error())
			return nil, nil, false
		}
		log.Error().Err(err).Str("file", up.Name).Msg("Failed to process upload")
		writeError(w, http.StatusInternalServerError, msgInternalError, err.Error())
		return nil, nil, false
	}

	log.Debug().
		Str("file", up.Name).
		Str("cadastral_number", rec.CadastralNumber).
		Str("system", string(rec.System)).
		Int("points", len(rec.Points)).
		Msg("Upload processed")

	return up, rec, true
}

// readUpload accepts either a multipart form with a "file" field or a raw
// XML body named by the "name" query parameter.
func (s *ServerContext) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	limit := s.Config.MaxUploadBytes
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, errNoFile
		}
		name := r.URL.Query().Get("name")
		if name != "" {
			name = filepath.Base(name)
		}
		return &upload{Name: name, Data: data}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}
	defer file.Close()

	if header.Size > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &upload{Name: filepath.Base(header.Filename), Data: data}, nil
}

func uploadErrorStatus(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, msgTooLarge
	}
	return http.StatusBadRequest, msgNoFile
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, lookup.ErrorResponse(msg, details))
}

func writeDownload(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
