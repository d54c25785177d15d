package tetmesh

// tetFaces lists the corners of the four faces of a tetrahedron. For a
// positively oriented tetrahedron every face winds counter-clockwise when
// seen from outside.
var tetFaces = [4][3]int{
	{1, 2, 3},
	{0, 3, 2},
	{0, 1, 3},
	{0, 2, 1},
}

type faceKey [3]int

func makeFaceKey(f [3]int) faceKey {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return faceKey{a, b, c}
}

// Boundary returns the faces that belong to exactly one tetrahedron of
// tetras. Faces are matched regardless of winding; each boundary face keeps
// the winding it had in its tetrahedron and faces are returned in order of
// first appearance. A face shared by two tetrahedra is interior and cancels.
func Boundary(tetras [][4]int) [][3]int {
	if len(tetras) == 0 {
		return nil
	}
	type occurrence struct {
		face  [3]int
		count int
	}
	index := make(map[faceKey]int, 2*len(tetras))
	faces := make([]occurrence, 0, 2*len(tetras))
	for _, tet := range tetras {
		for _, lf := range tetFaces {
			f := [3]int{tet[lf[0]], tet[lf[1]], tet[lf[2]]}
			key := makeFaceKey(f)
			if i, ok := index[key]; ok {
				faces[i].count++
				continue
			}
			index[key] = len(faces)
			faces = append(faces, occurrence{face: f, count: 1})
		}
	}
	n := 0
	for _, occ := range faces {
		if occ.count == 1 {
			n++
		}
	}
	boundary := make([][3]int, 0, n)
	for _, occ := range faces {
		if occ.count == 1 {
			boundary = append(boundary, occ.face)
		}
	}
	return boundary
}
