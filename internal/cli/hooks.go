package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/platemap/pkg/observability"
)

// logHooks reports pipeline, cache and server events at debug level.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks for every event category.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h logHooks) OnBuildStart(_ context.Context, source string) {
	h.logger.Debug("build start", "plate", source)
}

func (h logHooks) OnBuildComplete(_ context.Context, source string, wells int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "plate", source, "duration", d, "error", err)
		return
	}
	h.logger.Debug("build done", "plate", source, "wells", wells, "duration", d)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "id", requestID, "method", method, "path", path, "status", status, "duration", d)
}
