package io

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/plate"
)

// ReadJSON decodes a JSON plate definition from r. Unknown fields are
// rejected so that a misspelled "colours" does not silently vanish.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Definition, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var d Definition
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, unwrapCoded(err), "decode plate JSON")
	}
	return &d, nil
}

// ReadTOML decodes a TOML plate definition from r. Unknown keys are
// rejected.
func ReadTOML(r io.Reader) (*Definition, error) {
	var d Definition
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, unwrapCoded(err), "decode plate TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown plate field %q", undecoded[0].String())
	}
	return &d, nil
}

// ImportFile reads the plate definition at path, choosing the decoder by
// extension.
func ImportFile(path string) (*Definition, error) {
	if err := errors.ValidatePlateFilename(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "plate file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	if isTOML(path) {
		return ReadTOML(f)
	}
	return ReadJSON(f)
}

// Load imports path and builds its layout.
func Load(path string) (*Definition, *plate.Layout, error) {
	d, err := ImportFile(path)
	if err != nil {
		return nil, nil, err
	}
	l, err := d.Build()
	if err != nil {
		return nil, nil, errors.Wrap(errors.GetCode(err), err, "build %s", filepath.Base(path))
	}
	return d, l, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// unwrapCoded surfaces a coded error raised inside a custom unmarshaler
// (a bad direction, a bad text field) instead of the decoder's wrapper.
func unwrapCoded(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e
	}
	return err
}
