package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/errors"
	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path (several)
	formats string // comma-separated formats
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var popts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [plate.json|plate.toml]",
		Short: "Render a plate definition",
		Long: `Render a plate definition to one or more output formats.

With a single format, -o names the output file. With several formats, -o is a
base path and each format appends its extension (plate.svg, plate.png, ...).
Without -o, outputs are written next to the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			final := c.mergeRenderOptions(cmd, popts)
			final.Formats = parseFormats(opts.formats)
			if len(final.Formats) == 0 {
				final.Formats = c.Config.Render.renderOptions().Formats
			}
			final.Refresh = opts.refresh
			return c.runRender(cmd.Context(), args[0], opts, final)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	addRenderFlags(cmd, &popts)

	return cmd
}

// addRenderFlags registers the flags shared by render and serve.
func addRenderFlags(cmd *cobra.Command, o *pipeline.Options) {
	f := cmd.Flags()
	f.Float64Var(&o.Scale, "scale", pipeline.DefaultScale, "multiply every pixel dimension")
	f.Float64Var(&o.MarkerSize, "marker-size", 0, "well marker diameter in pixels (default from plate size)")
	f.Float64Var(&o.TextSize, "text-size", 0, "overlay text size in pixels (default from plate size)")
	f.StringVar(&o.TextColor, "text-color", pipeline.DefaultTextColor, "overlay text color")
	f.StringVar(&o.Colorscale, "colorscale", "", "colorscale for values: Blues (default), Greens, Greys, Reds, Viridis; append _r to reverse")
	f.BoolVar(&o.ShowScale, "show-scale", false, "draw the colorbar")
	f.Float64Var(&o.Zoom, "zoom", pipeline.DefaultZoom, "PNG resolution multiplier")
}

// mergeRenderOptions layers explicitly set flags over the config file.
func (c *CLI) mergeRenderOptions(cmd *cobra.Command, flags pipeline.Options) pipeline.Options {
	o := c.Config.Render.renderOptions()
	set := cmd.Flags().Changed
	if set("scale") {
		o.Scale = flags.Scale
	}
	if set("marker-size") {
		o.MarkerSize = flags.MarkerSize
	}
	if set("text-size") {
		o.TextSize = flags.TextSize
	}
	if set("text-color") {
		o.TextColor = flags.TextColor
	}
	if set("colorscale") {
		o.Colorscale = flags.Colorscale
	}
	if set("show-scale") {
		o.ShowScale = flags.ShowScale
	}
	if set("zoom") {
		o.Zoom = flags.Zoom
	}
	o.Logger = c.Logger
	return o
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts, popts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	def, err := plateio.ImportFile(input)
	if err != nil {
		return err
	}
	if def.Name == "" {
		def.Name = filepath.Base(input)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Rendering "+def.String())
	if !c.verbose {
		spin.Start()
	}
	result, err := runner.Execute(ctx, def, popts)
	if !c.verbose {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, popts.Formats)
	for _, format := range sortedFormats(paths) {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	prog.done("Rendered " + def.String())
	d := result.Layout.Dims()
	printSuccess("Rendered %s", def.String())
	printPlateStats(d.Rows, d.Columns, result.Layout.Len(), result.CacheHit)
	for _, format := range sortedFormats(paths) {
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to its output file. A single format writes
// to output verbatim; several formats treat output as a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + pipeline.FormatExtensions[f]
	}
	return paths
}

// basePath strips a known extension from output, or derives the base from
// input when output is empty: "plates/run1.toml" becomes "plates/run1".
func basePath(output, input string) string {
	if output == "" {
		output = input
		for _, ext := range []string{".plate.json", ".json", ".toml"} {
			if strings.HasSuffix(output, ext) {
				return strings.TrimSuffix(output, ext)
			}
		}
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, ext := range extensionsLongestFirst() {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// extensionsLongestFirst lists output extensions so that ".neato.svg" is
// tried before ".svg".
func extensionsLongestFirst() []string {
	exts := make([]string, 0, len(pipeline.FormatExtensions))
	for _, ext := range pipeline.FormatExtensions {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if len(exts[i]) != len(exts[j]) {
			return len(exts[i]) > len(exts[j])
		}
		return exts[i] < exts[j]
	})
	return exts
}

// sortedFormats returns the keys of paths in pipeline format order.
func sortedFormats(paths map[string]string) []string {
	var out []string
	for _, f := range pipeline.FormatNames() {
		if _, ok := paths[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// writeArtifact validates path and writes data to it.
func writeArtifact(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
