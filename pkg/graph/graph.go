package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

// MarshalGraph encodes a graph as indented JSON. Node and edge order is
// kept as given, so equal graphs produce equal bytes.
func MarshalGraph(g dfd.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g dfd.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g dfd.Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads and validates a graph from a JSON file.
func ReadGraphFile(path string) (dfd.Graph, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return dfd.Graph{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return dfd.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes and validates a graph from an io.Reader.
func ReadGraph(r io.Reader) (dfd.Graph, error) {
	return readGraphFrom(r)
}

// UnmarshalGraph decodes and validates a graph from JSON bytes.
func UnmarshalGraph(data []byte) (dfd.Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

func writeGraphTo(g dfd.Graph, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []dfd.Node{}
	}
	if g.Edges == nil {
		g.Edges = []dfd.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (dfd.Graph, error) {
	var g dfd.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return dfd.Graph{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode graph")
	}
	g.NormalizeEdgeIDs()
	if err := g.Validate(); err != nil {
		return dfd.Graph{}, err
	}
	return g, nil
}
