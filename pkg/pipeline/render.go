package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/platemap/pkg/errors"
	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/observability"
	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/render/sink"
)

// Render generates output artifacts in the requested formats without
// touching any cache. opts must be validated.
func Render(ctx context.Context, l *plate.Layout, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)

	artifacts, err := renderAll(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, l *plate.Layout, opts Options) (map[string][]byte, error) {
	g := l.Grid()
	sinkOpts := append(opts.SinkOptions(), sink.WithContext(ctx))
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(g, sinkOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(g, sinkOpts...)
		case FormatDOT:
			data = sink.RenderDOT(g, sinkOpts...)
		case FormatNeato:
			data, err = sink.RenderGraphviz(ctx, sink.RenderDOT(g, sinkOpts...))
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, g, opts.Zoom, sinkOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, g, sinkOpts...)
		case FormatExport:
			var buf bytes.Buffer
			err = plateio.WriteJSON(l, &buf)
			data = buf.Bytes()
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
		opts.Logger.Debug("rendered format", "format", format, "bytes", len(data))
	}

	return artifacts, nil
}
