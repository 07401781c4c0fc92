package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EntitySpec is the serialized form of one host entity.
type EntitySpec struct {
	Name       string    `json:"name" yaml:"name" toml:"name"`
	Kind       string    `json:"kind" yaml:"kind" toml:"kind"`
	Parent     string    `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty"`
	Hidden     bool      `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	HideRender bool      `json:"hide_render,omitempty" yaml:"hide_render,omitempty" toml:"hide_render,omitempty"`
	Layers     []int     `json:"layers,omitempty" yaml:"layers,omitempty" toml:"layers,omitempty"`
	Location   []float64 `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
}

// Document is the serialized scene snapshot emitted by the host.
type Document struct {
	Source   string       `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Cursor   []float64    `json:"cursor,omitempty" yaml:"cursor,omitempty" toml:"cursor,omitempty"`
	Entities []EntitySpec `json:"entities" yaml:"entities" toml:"entities"`
}

// Encoding names a snapshot serialization.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
	EncodingTOML Encoding = "toml"
)

// EncodingFor picks the encoding from a file extension.
func EncodingFor(path string) (Encoding, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return EncodingJSON, nil
	case ".yaml", ".yml":
		return EncodingYAML, nil
	case ".toml":
		return EncodingTOML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot extension %q (use .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Decode reads a Document in the given encoding.
func Decode(r io.Reader, enc Encoding) (Document, error) {
	var doc Document
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, fmt.Errorf("reading snapshot: %w", err)
	}
	switch enc {
	case EncodingJSON:
		err = json.Unmarshal(data, &doc)
	case EncodingYAML:
		err = yaml.Unmarshal(data, &doc)
	case EncodingTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return doc, fmt.Errorf("unsupported snapshot encoding %q", enc)
	}
	if err != nil {
		return doc, fmt.Errorf("decoding %s snapshot: %w", enc, err)
	}
	return doc, nil
}

// Load reads and indexes the snapshot at path.
func Load(path string) (*Snapshot, error) {
	enc, err := EncodingFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f, enc)
	if err != nil {
		return nil, err
	}
	snap, err := New(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return snap, nil
}
