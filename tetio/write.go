package tetio

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Write writes d to w.
func Write(w io.Writer, d Data, opts Options) error {
	if opts.IncludeRegionInfo && len(d.Regions) != len(d.Tetras) {
		return fmt.Errorf("tetio: %d region ids for %d tetrahedra", len(d.Regions), len(d.Tetras))
	}
	nv := len(d.Vertices)
	for i, t := range d.Tetras {
		for _, v := range t {
			if v < 0 || v >= nv {
				return fmt.Errorf("tetio: tetrahedron %d references vertex %d of %d", i, v, nv)
			}
		}
	}
	if opts.IncludeSurfaceFaces {
		for i, f := range d.Faces {
			for _, v := range f {
				if v < 0 || v >= nv {
					return fmt.Errorf("tetio: face %d references vertex %d of %d", i, v, nv)
				}
			}
		}
	}
	prec := opts.Precision
	if prec <= 0 {
		prec = -1
	}
	bw := bufio.NewWriter(w)
	// Numbers are appended to a scratch buffer to avoid fmt overhead on
	// large meshes.
	buf := make([]byte, 0, 128)
	if opts.Comment != "" {
		for _, line := range strings.Split(opts.Comment, "\n") {
			buf = append(buf[:0], "# "...)
			buf = append(buf, line...)
			buf = append(buf, '\n')
			bw.Write(buf)
		}
	}
	if opts.IncludeRegionInfo {
		buf = append(buf[:0], "txn "...)
		buf = strconv.AppendInt(buf, int64(d.NumRegions), 10)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	for _, v := range d.Vertices {
		buf = append(buf[:0], 'v', ' ')
		buf = strconv.AppendFloat(buf, v.X, 'f', prec, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Y, 'f', prec, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Z, 'f', prec, 64)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	for i, t := range d.Tetras {
		buf = append(buf[:0], 't')
		for _, v := range t {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(v), 10)
		}
		if opts.IncludeRegionInfo {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(d.Regions[i]), 10)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	if opts.IncludeSurfaceFaces {
		for _, f := range d.Faces {
			buf = append(buf[:0], 'f')
			for _, v := range f {
				buf = append(buf, ' ')
				buf = strconv.AppendInt(buf, int64(v), 10)
			}
			buf = append(buf, '\n')
			bw.Write(buf)
		}
	}
	// bufio.Writer retains the first write error and returns it here.
	return bw.Flush()
}

// WriteFile writes d to the named file. The data is first written to a
// temporary file in the same directory which is renamed over path once
// complete, so a failed export never leaves a partial file at path.
// Errors are of type *fs.PathError.
func WriteFile(path string, d Data, opts Options) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return &fs.PathError{Op: "create", Path: path, Err: unwrapPathError(err)}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = Write(tmp, d, opts); err != nil {
		return &fs.PathError{Op: "write", Path: path, Err: unwrapPathError(err)}
	}
	if err = tmp.Chmod(0o644); err != nil {
		return &fs.PathError{Op: "chmod", Path: path, Err: unwrapPathError(err)}
	}
	if err = tmp.Sync(); err != nil {
		return &fs.PathError{Op: "sync", Path: path, Err: unwrapPathError(err)}
	}
	if err = tmp.Close(); err != nil {
		return &fs.PathError{Op: "close", Path: path, Err: unwrapPathError(err)}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &fs.PathError{Op: "rename", Path: path, Err: unwrapPathError(err)}
	}
	return nil
}

func unwrapPathError(err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		return pe.Err
	}
	return err
}
