package surface

import (
	"fmt"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/milkpku/tetmesh"
	trender "github.com/milkpku/tetmesh/render"
	"gonum.org/v1/gonum/spatial/r3"
)

type sample struct {
	build func() (sdf.SDF3, error)
	seeds []tetmesh.RegionSeed
}

var samples = map[string]sample{
	"box": {
		build: func() (sdf.SDF3, error) { return sdf.Box3D(v3.Vec{X: 2, Y: 1.5, Z: 1}, 0) },
		seeds: []tetmesh.RegionSeed{{Attribute: 1}},
	},
	"sphere": {
		build: func() (sdf.SDF3, error) { return sdf.Sphere3D(1) },
		seeds: []tetmesh.RegionSeed{{Attribute: 1}},
	},
	"cylinder": {
		build: func() (sdf.SDF3, error) { return sdf.Cylinder3D(2, 0.75, 0) },
		seeds: []tetmesh.RegionSeed{{Attribute: 1}},
	},
	// Two disjoint cubes, one region each.
	"twin": {
		build: func() (sdf.SDF3, error) {
			cube, err := sdf.Box3D(v3.Vec{X: 1, Y: 1, Z: 1}, 0)
			if err != nil {
				return nil, err
			}
			left := sdf.Transform3D(cube, sdf.Translate3d(v3.Vec{X: -1}))
			right := sdf.Transform3D(cube, sdf.Translate3d(v3.Vec{X: 1}))
			return sdf.Union3D(left, right), nil
		},
		seeds: []tetmesh.RegionSeed{
			{Point: r3.Vec{X: -1}, Attribute: 1},
			{Point: r3.Vec{X: 1}, Attribute: 2},
		},
	},
}

// SampleNames returns the names accepted by Sample.
func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sample returns a closed surface of the named solid, polygonized by marching
// cubes with cells cells along the longest side. Region seeds are placed
// inside each component.
func Sample(name string, cells int) (tetmesh.Surface, error) {
	smp, ok := samples[name]
	if !ok {
		return tetmesh.Surface{}, fmt.Errorf("unknown sample %q, want one of %v", name, SampleNames())
	}
	if cells < 4 {
		return tetmesh.Surface{}, fmt.Errorf("sample resolution %d too coarse", cells)
	}
	solid, err := smp.build()
	if err != nil {
		return tetmesh.Surface{}, fmt.Errorf("sample %s: %w", name, err)
	}
	tris := render.ToTriangles(solid, render.NewMarchingCubesUniform(cells))
	model := make([]trender.Triangle3, 0, len(tris))
	for _, tri := range tris {
		model = append(model, trender.Triangle3{
			{X: tri[0].X, Y: tri[0].Y, Z: tri[0].Z},
			{X: tri[1].X, Y: tri[1].Y, Z: tri[1].Z},
			{X: tri[2].X, Y: tri[2].Y, Z: tri[2].Z},
		})
	}
	vertices, faces, err := Weld(model, 0)
	if err != nil {
		return tetmesh.Surface{}, fmt.Errorf("sample %s: %w", name, err)
	}
	return tetmesh.Surface{
		Name:      name,
		Vertices:  vertices,
		Triangles: faces,
		Regions:   append([]tetmesh.RegionSeed(nil), smp.seeds...),
	}, nil
}
