package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/platemap/pkg/cache"
	"github.com/matzehuels/platemap/pkg/errors"
	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/observability"
	"github.com/matzehuels/platemap/pkg/plate"
)

const (
	keyTypeArtifact = cache.KindArtifact
	keyTypePlate    = cache.KindPlate
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long rendered artifacts stay cached. Zero uses
	// cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs build → render with caching.
func (r *Runner) Execute(ctx context.Context, def *plateio.Definition, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{ID: uuid.NewString()}
	logger := opts.Logger.With("run", result.ID[:8])

	buildStart := time.Now()
	l, err := r.Build(ctx, def)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Wells = l.Dims().Wells()
	result.Stats.Populated = l.Len()

	logger.Info("built plate",
		"plate", def.String(),
		"rows", l.Dims().Rows,
		"columns", l.Dims().Columns,
		"populated", l.Len(),
		"duration", result.Stats.BuildTime)

	renderStart := time.Now()
	hash, artifacts, hit, err := r.render(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.PlateHash = hash
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build validates def into a layout, emitting pipeline hooks.
func (r *Runner) Build(ctx context.Context, def *plateio.Definition) (*plate.Layout, error) {
	if def == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "plate definition is required")
	}
	hooks := observability.Pipeline()
	source := def.String()

	start := time.Now()
	hooks.OnBuildStart(ctx, source)
	l, err := def.Build()
	wells := 0
	if l != nil {
		wells = l.Len()
	}
	hooks.OnBuildComplete(ctx, source, wells, time.Since(start), err)
	return l, err
}

// render expects validated options.
func (r *Runner) render(ctx context.Context, l *plate.Layout, opts Options) (string, map[string][]byte, bool, error) {
	export, hash, err := canonicalExport(l)
	if err != nil {
		return "", nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return hash, artifacts, true, nil
	}

	fresh := opts
	fresh.Formats = missing
	rendered, err := Render(ctx, l, fresh)
	if err != nil {
		return "", nil, false, err
	}

	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	if err := r.Cache.Set(ctx, r.Keyer.PlateKey(hash), export, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "plate", hash[:12], "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypePlate, len(export))
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return hash, artifacts, false, nil
}

// LookupPlate returns the canonical export stored for a plate hash by an
// earlier render. ok is false when the cache does not hold it.
func (r *Runner) LookupPlate(ctx context.Context, plateHash string) ([]byte, bool, error) {
	if !cache.ValidPlateHash(plateHash) {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "invalid plate hash %q", plateHash)
	}
	data, ok, err := r.Cache.Get(ctx, r.Keyer.PlateKey(plateHash))
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "read plate %s", plateHash)
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyTypePlate)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyTypePlate)
	}
	return data, ok, nil
}

// PlateHash hashes the canonical label-keyed export of l. Layouts with the
// same dimensions and wells hash equally regardless of how they were built.
func PlateHash(l *plate.Layout) (string, error) {
	_, hash, err := canonicalExport(l)
	return hash, err
}

func canonicalExport(l *plate.Layout) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := plateio.WriteJSON(l, &buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
