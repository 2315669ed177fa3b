// Package styles defines how diagram nodes and edges are drawn in SVG.
package styles
