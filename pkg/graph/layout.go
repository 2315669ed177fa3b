package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
	"github.com/matzehuels/dfdlayout/pkg/layout"
)

// Layout is the serialization format of a computed diagram.
//
// Nodes and edges are the diagram's, with positions and route styles.
// Options records the settings the layout was computed with so a cached
// layout can be told apart from one computed with other spacing.
type Layout struct {
	Nodes    []dfd.PlacedNode `json:"nodes"`
	Edges    []dfd.RoutedEdge `json:"edges"`
	MaxLevel int              `json:"maxLevel"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Options  layout.Options   `json:"options"`

	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Diagnostics exposes the intermediate structure of a layout run.
type Diagnostics struct {
	Sources      []string            `json:"sources"`
	MergePoints  []layout.MergePoint `json:"mergePoints"`
	Groups       [][]string          `json:"groups"`
	Lanes        map[string]int      `json:"lanes"`
	RemovedEdges [][2]string         `json:"removedEdges,omitempty"`
	Crossings    int                 `json:"crossings"`
}

// FromDiagram wraps a diagram without diagnostics.
func FromDiagram(d dfd.Diagram, opts layout.Options) Layout {
	return Layout{
		Nodes:    d.Nodes,
		Edges:    d.Edges,
		MaxLevel: d.MaxLevel,
		Width:    d.Width,
		Height:   d.Height,
		Options:  opts,
	}
}

// FromResult wraps a layout result including its diagnostics.
func FromResult(res *layout.Result, opts layout.Options) Layout {
	l := FromDiagram(res.Diagram, opts)
	l.Diagnostics = &Diagnostics{
		Sources:      nonNil(res.Sources),
		MergePoints:  nonNil(res.MergePoints),
		Groups:       nonNil(res.Groups),
		Lanes:        res.Lanes,
		RemovedEdges: res.RemovedEdges,
		Crossings:    res.Crossings,
	}
	return l
}

// Diagram returns the positioned graph held by the layout.
func (l Layout) Diagram() dfd.Diagram {
	return dfd.Diagram{
		Nodes:    l.Nodes,
		Edges:    l.Edges,
		MaxLevel: l.MaxLevel,
		Width:    l.Width,
		Height:   l.Height,
	}
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	if l.Nodes == nil {
		l.Nodes = []dfd.PlacedNode{}
	}
	if l.Edges == nil {
		l.Edges = []dfd.RoutedEdge{}
	}
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that
// every edge connects nodes of the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "unmarshal layout")
	}

	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return Layout{}, apperr.New(apperr.ErrCodeDanglingEdge, "layout edge %s connects unknown nodes %q → %q", e.ID, e.Source, e.Target)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Layout{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "layout file %s", path)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
