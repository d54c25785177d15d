package d3

import "gonum.org/v1/gonum/spatial/r3"

// SignedVolume returns the signed volume of tetrahedron abcd. It is positive
// when d lies on the side of plane abc that (b-a)x(c-a) points to.
func SignedVolume(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)), r3.Sub(d, a)) / 6
}

// TetraCentroid returns the mean of the four tetrahedron corners.
func TetraCentroid(a, b, c, d r3.Vec) r3.Vec {
	return r3.Scale(0.25, r3.Add(r3.Add(a, b), r3.Add(c, d)))
}

// TriangleNormal returns the unit normal of triangle abc following the right
// hand rule. Degenerate triangles return the zero vector.
func TriangleNormal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if n == (r3.Vec{}) {
		return n
	}
	return r3.Unit(n)
}

// RayTriangle returns the ray parameter t at which the ray orig+t*dir crosses
// triangle abc (Möller-Trumbore). ok is false when the ray misses or runs
// parallel to the triangle.
func RayTriangle(orig, dir, a, b, c r3.Vec) (t float64, ok bool) {
	const eps = 1e-14
	e1 := r3.Sub(b, a)
	e2 := r3.Sub(c, a)
	p := r3.Cross(dir, e2)
	det := r3.Dot(e1, p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := r3.Sub(orig, a)
	u := r3.Dot(s, p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, e1)
	v := r3.Dot(dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	return r3.Dot(e2, q) * inv, true
}
