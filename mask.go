package tetmesh

// VisibilityMask holds one visibility flag per region label.
type VisibilityMask []bool

// NewVisibilityMask returns a mask of n regions, all visible.
func NewVisibilityMask(n int) VisibilityMask {
	m := make(VisibilityMask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Visible reports whether label is visible. Labels outside the mask are hidden.
func (m VisibilityMask) Visible(label int) bool {
	return label >= 0 && label < len(m) && m[label]
}

// CountVisible returns the number of visible regions.
func (m VisibilityMask) CountVisible() (n int) {
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// FilterRegions returns the tetrahedra whose label is visible in mask along
// with their labels, in input order. The inputs are not modified.
// Tetrahedra without a matching entry in labels are treated as hidden.
func FilterRegions(tetras [][4]int, labels []int, mask VisibilityMask) ([][4]int, []int) {
	labels = labels[:min(len(labels), len(tetras))]
	n := 0
	for _, l := range labels {
		if mask.Visible(l) {
			n++
		}
	}
	outT := make([][4]int, 0, n)
	outL := make([]int, 0, n)
	for i, l := range labels {
		if mask.Visible(l) {
			outT = append(outT, tetras[i])
			outL = append(outL, l)
		}
	}
	return outT, outL
}
