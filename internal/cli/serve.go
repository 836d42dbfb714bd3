package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/buildinfo"
	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/grid"
	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/observability"
	"github.com/matzehuels/platemap/pkg/pipeline"
	"github.com/matzehuels/platemap/pkg/well"
)

const (
	// maxBodyBytes bounds plate definition uploads.
	maxBodyBytes = 4 << 20

	headerRequestID = "X-Request-ID"
	headerPlateHash = "X-Plate-Hash"
	headerCache     = "X-Cache"

	shutdownTimeout = 10 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:    "image/svg+xml",
	pipeline.FormatNeato:  "image/svg+xml",
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatExport: "application/json",
	pipeline.FormatPNG:    "image/png",
	pipeline.FormatPDF:    "application/pdf",
	pipeline.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
}

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var maxWells int
	var popts pipeline.Options

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve plate rendering over HTTP",
		Long: `Serve plate rendering over HTTP.

  POST /api/v1/render?format=svg   render a plate definition (JSON or TOML body)
  GET  /api/v1/plates/{hash}       canonical JSON of a rendered plate
  POST /api/v1/labels              parse well labels
  GET  /api/v1/version             build information
  GET  /healthz                    liveness probe

Rendered artifacts are cached in the configured backend; point several
servers at one redis to share it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("max-wells") {
				maxWells = c.Config.Server.MaxWells
			}
			if maxWells < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--max-wells must not be negative")
			}
			defaults := c.mergeRenderOptions(cmd, popts)
			check := defaults
			if err := check.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := newServer(runner, defaults, c.Logger)
			srv.maxWells = maxWells
			return srv.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServerAddr, "listen address")
	cmd.Flags().IntVar(&maxWells, "max-wells", defaultMaxWells, "largest plate (rows×columns) to render, 0 for no limit")
	addRenderFlags(cmd, &popts)
	return cmd
}

// server is the HTTP front end of the render pipeline. defaults are kept
// unvalidated so that each request validates its own overrides.
type server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	maxWells int // 0 is unlimited
}

func newServer(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *server {
	return &server{runner: runner, defaults: defaults, logger: logger}
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, buildinfo.Current())
		})
		r.Post("/render", s.handleRender)
		r.Get("/plates/{hash}", s.handlePlate)
		r.Post("/labels", s.handleLabels)
	})
	return r
}

func (s *server) listen(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// handleRender renders the plate definition in the request body. The body
// is TOML when Content-Type says so and JSON otherwise.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var def *plateio.Definition
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		def, err = plateio.ReadTOML(body)
	} else {
		def, err = plateio.ReadJSON(body)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.checkSize(def); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), def, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set(headerPlateHash, result.PlateHash)
	if result.CacheHit {
		w.Header().Set(headerCache, "hit")
	} else {
		w.Header().Set(headerCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// handlePlate returns the canonical export stored under an X-Plate-Hash
// by an earlier render.
func (s *server) handlePlate(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	data, ok, err := s.runner.LookupPlate(r.Context(), hash)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, errors.New(errors.ErrCodePlateNotFound, "no cached plate with hash %s", hash))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(headerPlateHash, hash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// checkSize rejects plates with more than maxWells wells before anything
// is rendered.
func (s *server) checkSize(def *plateio.Definition) error {
	if s.maxWells == 0 {
		return nil
	}
	d, err := def.Dims()
	if err != nil {
		return err
	}
	if d.Wells() > s.maxWells {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"%dx%d plate has %d wells; this server renders at most %d", d.Rows, d.Columns, d.Wells(), s.maxWells)
	}
	return nil
}

// requestOptions layers query parameters over the server defaults.
// Exactly one format is rendered per request.
func (s *server) requestOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Logger = s.logger.With("request", middleware.GetReqID(r.Context()))

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}

	floats := map[string]*float64{
		"scale":       &opts.Scale,
		"marker_size": &opts.MarkerSize,
		"text_size":   &opts.TextSize,
		"zoom":        &opts.Zoom,
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", name, v)
			}
			*dst = f
		}
	}
	if v := q.Get("text_color"); v != "" {
		opts.TextColor = v
	}
	if v := q.Get("colorscale"); v != "" {
		opts.Colorscale = v
	}
	if v := q.Get("show_scale"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "show_scale: not a boolean: %q", v)
		}
		opts.ShowScale = b
	}
	opts.Refresh = q.Get("refresh") == "true"

	return opts, opts.ValidateAndSetDefaults()
}

// labelsRequest is the body of POST /api/v1/labels. Rows and columns (or a
// standard format) are optional; with them each label also gets its fill
// position.
type labelsRequest struct {
	Labels    []string       `json:"labels"`
	Rows      int            `json:"rows,omitempty"`
	Columns   int            `json:"columns,omitempty"`
	Format    int            `json:"format,omitempty"`
	Direction grid.Direction `json:"direction,omitempty"`
}

type labelResult struct {
	Input string `json:"input"`
	Label string `json:"label"`
	well.Coord
	Position *int `json:"position,omitempty"`
}

func (s *server) handleLabels(w http.ResponseWriter, r *http.Request) {
	var req labelsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode labels request"))
		return
	}

	var d grid.Dims
	withGrid := req.Format != 0 || req.Rows != 0 || req.Columns != 0
	if withGrid {
		def := plateio.Definition{Format: req.Format, Rows: req.Rows, Columns: req.Columns}
		var err error
		if d, err = def.Dims(); err != nil {
			writeError(w, err)
			return
		}
	}

	results := make([]labelResult, 0, len(req.Labels))
	for _, in := range req.Labels {
		c, err := well.Parse(in)
		if err != nil {
			writeError(w, err)
			return
		}
		res := labelResult{Input: in, Label: c.String(), Coord: c}
		if withGrid {
			pos, err := grid.ToLinear(c, d, req.Direction)
			if err != nil {
				writeError(w, err)
				return
			}
			res.Position = &pos
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, map[string]any{"wells": results})
}

// requestID assigns a uuid to each request, echoes it in X-Request-ID and
// reports the request to the server hooks.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		w.Header().Set(headerRequestID, id)

		hooks := observability.Server()
		hooks.OnRequest(ctx, id, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, id, r.Method, r.URL.Path, status, time.Since(start))
	})
}

// apiError is the JSON error body.
type apiError struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := rootCode(err)
	writeJSON(w, statusFor(code), apiError{Code: code, Message: errors.UserMessage(err)})
}

// rootCode returns the innermost error code in err's chain, so a
// DUPLICATE_WELL_LABEL wrapped by a loader is reported as such.
func rootCode(err error) errors.Code {
	code := errors.ErrCodeInternal
	for err != nil {
		var e *errors.Error
		if !stderrors.As(err, &e) {
			break
		}
		code = e.Code
		err = e.Cause
	}
	return code
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInternal:
		return http.StatusInternalServerError
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeFileNotFound, errors.ErrCodePlateNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
