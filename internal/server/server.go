// Package server exposes the decomposition over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/export"
	"github.com/maax3v3/pixrect/internal/imaging"
	"github.com/maax3v3/pixrect/internal/logging"
	"github.com/maax3v3/pixrect/internal/pipeline"
)

// DefaultMaxBodyBytes is the default upload limit.
const DefaultMaxBodyBytes = 32 << 20

// Config configures the HTTP service.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	// Options are the defaults for every request; query parameters
	// override MaxColors and Background.
	Options pipeline.Options
}

type handler struct {
	cfg Config
}

// New returns the router serving /healthz and /v1/layout.
func New(cfg Config) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	h := &handler{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})
	r.Post("/v1/layout", h.layout)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           New(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger().Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logging.Logger().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (h *handler) options(r *http.Request) (pipeline.Options, export.Format, error) {
	q := r.URL.Query()
	opts := h.cfg.Options

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		return opts, "", err
	}
	if s := q.Get("max-colors"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return opts, "", fmt.Errorf("max-colors must be an integer >= 0, got %q", s)
		}
		opts.MaxColors = n
	}
	if s := q.Get("background"); s != "" {
		bg, err := color.ParseHex(s)
		if err != nil {
			return opts, "", fmt.Errorf("background: %w", err)
		}
		opts.Background = bg
	}
	return opts, format, nil
}

func (h *handler) layout(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger()

	opts, format, err := h.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("image larger than %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
		return
	}

	img, kind, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		http.Error(w, "decoding image: "+err.Error(), http.StatusBadRequest)
		return
	}
	log.Debug("image decoded", "format", kind, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	l, err := pipeline.Decompose(r.Context(), img, opts)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		log.Error("decomposition failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, l, format); err != nil {
		log.Error("encoding layout", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Logger().LogAttrs(r.Context(), slog.LevelInfo, "request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
