package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/plate"
)

// exportTOML is the TOML export shape. Definition itself is not encoded
// to TOML because its text field has no TOML marshaler.
type exportTOML struct {
	Rows    int                         `toml:"rows"`
	Columns int                         `toml:"columns"`
	Wells   map[string]plate.Attributes `toml:"wells"`
}

// WriteJSON encodes l as a label-keyed JSON definition. The output can be
// re-imported with [ReadJSON] to an identical layout.
func WriteJSON(l *plate.Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(l)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode plate JSON")
	}
	return nil
}

// WriteTOML encodes l as a label-keyed TOML definition.
func WriteTOML(l *plate.Layout, w io.Writer) error {
	d := Export(l)
	out := exportTOML{Rows: d.Rows, Columns: d.Columns, Wells: d.Wells}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode plate TOML")
	}
	return nil
}

// ExportFile writes l to path, choosing JSON or TOML by extension.
func ExportFile(l *plate.Layout, path string) error {
	if err := errors.ValidatePlateFilename(path); err != nil {
		return err
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()

	if isTOML(path) {
		return WriteTOML(l, f)
	}
	return WriteJSON(l, f)
}
