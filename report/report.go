// Package report summarizes a processed tetrahedral mesh per region.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/internal/d3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RegionStats describes the tetrahedra of one region.
type RegionStats struct {
	Label      int
	Tetras     int
	Volume     float64
	MeanVolume float64
	StdDev     float64
	MinVolume  float64
	MaxVolume  float64
}

// Summary describes a mesh.
type Summary struct {
	Vertices      int
	Tetras        int
	BoundaryFaces int
	Orientation   tetmesh.OrientationReport
	Regions       []RegionStats
}

// Summarize computes the statistics of m. Volumes are unsigned.
func Summarize(m *tetmesh.Mesh) Summary {
	s := Summary{
		Vertices:      len(m.Vertices),
		Tetras:        len(m.Tetras),
		BoundaryFaces: len(tetmesh.Boundary(m.Tetras)),
		Orientation:   tetmesh.CheckOrientation(m.Vertices, m.Tetras),
		Regions:       make([]RegionStats, m.NumRegions),
	}
	volumes := make([][]float64, m.NumRegions)
	for i, t := range m.Tetras {
		v := math.Abs(d3.SignedVolume(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]], m.Vertices[t[3]]))
		volumes[m.Regions[i]] = append(volumes[m.Regions[i]], v)
	}
	for label, vols := range volumes {
		r := &s.Regions[label]
		r.Label = label
		r.Tetras = len(vols)
		if len(vols) == 0 {
			continue
		}
		r.Volume = floats.Sum(vols)
		r.MeanVolume, r.StdDev = stat.MeanStdDev(vols, nil)
		if len(vols) == 1 {
			r.StdDev = 0
		}
		r.MinVolume = floats.Min(vols)
		r.MaxVolume = floats.Max(vols)
	}
	return s
}

// WriteText writes s as an aligned table.
func (s Summary) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "vertices %d\ntetrahedra %d\nboundary faces %d\n", s.Vertices, s.Tetras, s.BoundaryFaces)
	fmt.Fprintf(w, "orientation positive %d negative %d degenerate %d\n",
		s.Orientation.Positive, s.Orientation.Negative, s.Orientation.Degenerate)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "region\ttetras\tvolume\tmean\tstddev\tmin\tmax\t")
	for _, r := range s.Regions {
		fmt.Fprintf(tw, "%d\t%d\t%.6g\t%.4g\t%.4g\t%.4g\t%.4g\t\n",
			r.Label, r.Tetras, r.Volume, r.MeanVolume, r.StdDev, r.MinVolume, r.MaxVolume)
	}
	return tw.Flush()
}

// PlotRegions saves a bar chart of the tetrahedron count per region. The
// image format follows the extension of path.
func PlotRegions(s Summary, path string, width, height vg.Length) error {
	if len(s.Regions) == 0 {
		return fmt.Errorf("report: no regions to plot")
	}
	counts := make(plotter.Values, len(s.Regions))
	names := make([]string, len(s.Regions))
	for i, r := range s.Regions {
		counts[i] = float64(r.Tetras)
		names[i] = strconv.Itoa(r.Label)
	}
	p := plot.New()
	p.Title.Text = "Tetrahedra per region"
	p.X.Label.Text = "region"
	p.Y.Label.Text = "tetrahedra"
	bars, err := plotter.NewBarChart(counts, vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(names...)
	return p.Save(width, height, path)
}
