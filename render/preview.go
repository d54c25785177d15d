package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures Preview.
type View struct {
	Width, Height int
	// Supersample renders at Supersample times the output resolution and
	// downsamples for antialiasing. Values below 1 are treated as 1.
	Supersample int
	// Eye, Center and Up place the camera in the bi-unit cube the model is
	// fitted into.
	Eye, Center, Up r3.Vec
	Fovy            float64 // vertical field of view in degrees
	Near, Far       float64
	Color           string // object color in hex notation
	Background      string
}

// DefaultView returns an isometric looking view.
func DefaultView() View {
	return View{
		Width:       800,
		Height:      600,
		Supersample: 2,
		Eye:         r3.Vec{X: 3, Y: 2, Z: 2.5},
		Up:          r3.Vec{Z: 1},
		Fovy:        30,
		Near:        1,
		Far:         10,
		Color:       "#468966",
		Background:  "#FFF8E3",
	}
}

// Preview draws a Phong shaded image of model.
func Preview(model []Triangle3, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := max(view.Supersample, 1)
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		if t.Normal() == (r3.Vec{}) {
			continue
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(fauxglVec(t[0]), fauxglVec(t[1]), fauxglVec(t[2])))
	}
	if len(tris) == 0 {
		return nil, errors.New("all triangles are degenerate")
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	var (
		eye    = fauxglVec(view.Eye)
		center = fauxglVec(view.Center)
		up     = fauxglVec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// PreviewPNG draws model and saves it as a PNG file at path.
func PreviewPNG(path string, model []Triangle3, view View) error {
	img, err := Preview(model, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxglVec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
