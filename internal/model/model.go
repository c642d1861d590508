package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sigpath/internal/kinetics"
)

var ErrUnsupportedFormat = errors.New("model: unsupported file format")

// Load reads the model at path.
func Load(path string) (*kinetics.ModelSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var spec *kinetics.ModelSpec
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		spec, err = DecodeJSON(f)
	case ".yaml", ".yml":
		spec, err = DecodeYAML(f)
	case ".xml", ".sbml":
		spec, err = DecodeSBML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("model: %s: %w", path, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return spec, nil
}

func DecodeJSON(r io.Reader) (*kinetics.ModelSpec, error) {
	var spec kinetics.ModelSpec
	dec := json.NewDecoder(r)
	if err := dec.Decode(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func DecodeYAML(r io.Reader) (*kinetics.ModelSpec, error) {
	var spec kinetics.ModelSpec
	if err := yaml.NewDecoder(r).Decode(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Export writes spec as YAML when path ends in .yaml or .yml, JSON otherwise.
func Export(path string, spec *kinetics.ModelSpec) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(spec)
	default:
		data, err = json.MarshalIndent(spec, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
