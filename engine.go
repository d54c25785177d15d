package tetmesh

import (
	"context"
	"errors"
	"fmt"
)

// RunEngine invokes e and normalizes its failure modes into a
// *TetrahedralizeError. A panic inside the engine is recovered and reported
// as Crashed, a result without tetrahedra is reported as Degenerate.
func RunEngine(ctx context.Context, e Engine, switches string, s Surface) (raw RawMesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw = RawMesh{}
			err = &TetrahedralizeError{Kind: Crashed, Switches: switches, Err: fmt.Errorf("engine panic: %v", r)}
		}
	}()
	raw, err = e.Tetrahedralize(ctx, switches, s)
	if err != nil {
		var terr *TetrahedralizeError
		if errors.As(err, &terr) {
			return RawMesh{}, err
		}
		return RawMesh{}, &TetrahedralizeError{Kind: Failed, Switches: switches, Err: err}
	}
	if len(raw.Tetras) == 0 {
		return RawMesh{}, &TetrahedralizeError{Kind: Degenerate, Switches: switches, Err: ErrEmptyResult}
	}
	return raw, nil
}
