package tetmesh

import "testing"

func TestFilterRegions(t *testing.T) {
	tetras := [][4]int{{0, 1, 2, 3}, {1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}, {4, 5, 6, 7}}
	labels := []int{0, 2, 1, 2, 0}
	masks := []VisibilityMask{
		{true, true, true},
		{false, false, false},
		{true, false, false},
		{false, true, true},
		{true, false, true},
		{true}, // labels beyond the mask are hidden.
	}
	for _, mask := range masks {
		got, gotLabels := FilterRegions(tetras, labels, mask)
		var want [][4]int
		for i, l := range labels {
			if l < len(mask) && mask[l] {
				want = append(want, tetras[i])
			}
		}
		if len(got) != len(want) {
			t.Errorf("mask %v: got %d tetrahedra, want %d", mask, len(got), len(want))
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("mask %v: tetra %d got %v, want %v", mask, i, got[i], want[i])
			}
			if !mask.Visible(gotLabels[i]) {
				t.Errorf("mask %v: hidden label %d returned", mask, gotLabels[i])
			}
		}
	}
	if labels[1] != 2 || tetras[1] != [4]int{1, 2, 3, 4} {
		t.Error("inputs must not be modified")
	}
}

func TestFilterRegionsAllVisible(t *testing.T) {
	tetras := [][4]int{{0, 1, 2, 3}, {1, 2, 3, 4}}
	labels := []int{1, 0}
	got, gotLabels := FilterRegions(tetras, labels, NewVisibilityMask(2))
	if len(got) != 2 || got[0] != tetras[0] || got[1] != tetras[1] || gotLabels[0] != 1 {
		t.Errorf("all-visible mask must return the input unchanged, got %v %v", got, gotLabels)
	}
	got, _ = FilterRegions(tetras, labels, VisibilityMask{false, false})
	if len(got) != 0 {
		t.Errorf("all-hidden mask must return nothing, got %v", got)
	}
}

func TestFilterRegionsMismatchedLabels(t *testing.T) {
	tetras := [][4]int{{0, 1, 2, 3}, {1, 2, 3, 4}, {2, 3, 4, 5}}
	mask := NewVisibilityMask(2)
	got, gotLabels := FilterRegions(tetras, []int{1, 0}, mask)
	if len(got) != 2 || got[1] != tetras[1] || len(gotLabels) != 2 {
		t.Errorf("unlabelled tetrahedron must be hidden, got %v %v", got, gotLabels)
	}
	got, gotLabels = FilterRegions(tetras[:1], []int{0, 1, 1}, mask)
	if len(got) != 1 || len(gotLabels) != 1 || gotLabels[0] != 0 {
		t.Errorf("extra labels must be ignored, got %v %v", got, gotLabels)
	}
}

func TestVisibilityMask(t *testing.T) {
	m := NewVisibilityMask(3)
	if m.CountVisible() != 3 {
		t.Errorf("new mask must be all visible, got %d", m.CountVisible())
	}
	m[1] = false
	if m.Visible(1) || !m.Visible(2) || m.Visible(-1) || m.Visible(3) {
		t.Errorf("unexpected visibility %v", m)
	}
}
