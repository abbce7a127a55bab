package project

import (
	"encoding/json"
	"io"
	"os"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/model"
)

// WriteModel encodes a synthesized model as indented JSON and writes it
// to w. The output round-trips through [ReadModel].
func WriteModel(m *model.Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode model")
	}
	return nil
}

// ExportModel writes a model to a JSON file at path.
func ExportModel(m *model.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteModel(m, f)
}

// ReadModel decodes a model from its JSON form. ReadModel does not
// close r.
func ReadModel(r io.Reader) (*model.Model, error) {
	var m model.Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode model")
	}
	return &m, nil
}

// ImportModel reads the JSON model file at path.
func ImportModel(path string) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "model file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadModel(f)
}
