package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed characters.yaml
var defaultDataset []byte

type dataset struct {
	Characters []Character `yaml:"characters"`
}

// DefaultDataset returns the characters bundled with the binary.
func DefaultDataset() ([]Character, error) {
	return DecodeDataset(bytes.NewReader(defaultDataset))
}

// LoadDataset reads a YAML dataset from path. An empty path selects the
// bundled dataset.
func LoadDataset(path string) ([]Character, error) {
	if path == "" {
		return DefaultDataset()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return DecodeDataset(f)
}

// DecodeDataset parses a YAML dataset. Every character needs a name and names
// must be unique once normalized with Key.
func DecodeDataset(r io.Reader) ([]Character, error) {
	var ds dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(ds.Characters))
	for i, c := range ds.Characters {
		key := Key(c.Name)
		if key == "" {
			return nil, fmt.Errorf("decode dataset: character #%d has no name", i+1)
		}
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("decode dataset: duplicate character %q", c.Name)
		}
		seen[key] = struct{}{}
	}

	return ds.Characters, nil
}
