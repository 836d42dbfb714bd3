package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/cache"
	"github.com/matzehuels/platemap/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
		Long: `Manage the rendered artifact cache.

Entries are grouped by plate hash, the X-Plate-Hash a render reports: each
plate keeps its canonical export next to every artifact rendered from it.`,
	}

	cmd.AddCommand(c.cacheListCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheListCommand creates the "cache list" subcommand.
func (c *CLI) cacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached plates and their artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer backend.Close()

			fc, ok := backend.(*cache.FileCache)
			if !ok {
				printWarning("Listing is only supported for the file cache (backend %q)", c.Config.Cache.Backend)
				return nil
			}
			entries, err := fc.Entries(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "list cache")
			}
			if len(entries) == 0 {
				printInfo("Cache is empty")
				printDetail("%s", fc.Dir())
				return nil
			}
			fmt.Fprintln(out, entryTable(entries).Render())
			return nil
		},
	}
}

// entryTable lays out cache entries one per row. The plate hash is shown
// once per plate, shortened.
func entryTable(entries []cache.PlateEntry) *table.Table {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		plate := ""
		if i == 0 || entries[i-1].Plate != e.Plate {
			plate = e.Plate[:12]
		}
		what := e.Format
		if e.Kind == cache.KindPlate {
			what = "plate"
		}
		rows[i] = []string{plate, what, strconv.Itoa(e.Size), expiry(e.ExpiresAt)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Plate", "Entry", "Bytes", "Expires").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case row < len(entries) && entries[row].Kind == cache.KindPlate:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}

func expiry(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [plate-hash]",
		Short: "Drop every cached artifact, or one plate's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer backend.Close()

			if len(args) == 1 {
				return clearPlate(cmd, backend, args[0])
			}

			clearer, ok := backend.(cache.Clearer)
			if !ok {
				printWarning("Cache is disabled (backend %q)", c.Config.Cache.Backend)
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}

			printSuccess("Cleared %s cache", c.Config.Cache.Backend)
			printDetail("%s", c.cacheLocation(backend))
			return nil
		},
	}
}

func clearPlate(cmd *cobra.Command, backend cache.Cache, plateHash string) error {
	if !cache.ValidPlateHash(plateHash) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid plate hash %q", plateHash)
	}
	deleter, ok := backend.(cache.PlateDeleter)
	if !ok {
		printWarning("Cache is disabled")
		return nil
	}
	n, err := deleter.DeletePlate(cmd.Context(), plateHash)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear plate %s", plateHash)
	}
	if n == 0 {
		printInfo("Nothing cached for plate %s", plateHash[:12])
		return nil
	}
	printSuccess("Removed %d entries of plate %s", n, plateHash[:12])
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path [plate-hash]",
		Short: "Print where the cache, or one plate's entries, lives",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == CacheRedis {
				fmt.Fprintln(out, c.cacheLocation(nil))
				return nil
			}
			dir := c.Config.Cache.Dir
			if dir == "" {
				d, err := cacheDir()
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
				}
				dir = d
			}
			if len(args) == 1 {
				if !cache.ValidPlateHash(args[0]) {
					return errors.New(errors.ErrCodeInvalidInput, "invalid plate hash %q", args[0])
				}
				dir = cache.PlateDir(dir, args[0])
			}
			fmt.Fprintln(out, dir)
			return nil
		},
	}
}

// cacheLocation describes a backend for humans: a directory or a redis URL.
func (c *CLI) cacheLocation(backend cache.Cache) string {
	if fc, ok := backend.(*cache.FileCache); ok {
		return fc.Dir()
	}
	r := c.Config.Cache.Redis
	return fmt.Sprintf("redis://%s/%d (prefix %q)", r.Addr, r.DB, r.Prefix)
}
