// Package tetio reads and writes region tagged tetrahedral meshes in a line
// oriented text format:
//
//	# comment
//	txn <regions>         present iff tetrahedron lines carry a region column
//	v <x> <y> <z>         one per vertex, numbered from 0 in order of appearance
//	t <i0> <i1> <i2> <i3> [<region>]
//	f <i0> <i1> <i2>      boundary faces, optional
//
// Coordinates are written in fixed decimal notation and indices as integers.
package tetio

import "gonum.org/v1/gonum/spatial/r3"

// Data is the content of a tetio file.
type Data struct {
	Vertices []r3.Vec
	Tetras   [][4]int
	// Regions holds one region id per tetrahedron. It is nil when the file
	// carries no region column.
	Regions []int
	// NumRegions is the value declared on the txn line.
	NumRegions int
	Faces      [][3]int
}

// Options control what Write emits.
type Options struct {
	IncludeRegionInfo   bool
	IncludeSurfaceFaces bool
	// Precision is the number of digits after the decimal point for vertex
	// coordinates. Values <= 0 select the shortest representation that
	// parses back to the exact same float64.
	Precision int
	// Comment is written as a leading comment line when not empty.
	Comment string
}
