// Package tetgen runs the TetGen command line program as a tetmesh.Engine.
//
// The surface is written as input.smesh to a fresh work directory and
// tetgen is run there with the switch string. The resulting input.1.node,
// input.1.ele and, if present, input.1.face files are parsed into a
// tetmesh.RawMesh.
package tetgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/surface"
	"go.uber.org/zap"
)

// Engine is a tetmesh.Engine backed by the tetgen executable.
type Engine struct {
	// Path of the tetgen executable. Defaults to "tetgen" looked up in PATH.
	Path string
	// Timeout bounds a single run. Zero means no limit.
	Timeout time.Duration
	// Dir is where work directories are created. Defaults to os.TempDir.
	Dir string
	// Keep leaves the work directory in place for inspection.
	Keep bool
	Log  *zap.Logger
}

var _ tetmesh.Engine = Engine{}

const (
	inputName  = "input.smesh"
	outputStem = "input.1"
)

// Tetrahedralize implements tetmesh.Engine. A run killed by a signal,
// including a timeout, is reported as tetmesh.Crashed, any other failure as
// tetmesh.Failed.
func (e Engine) Tetrahedralize(ctx context.Context, switches string, s tetmesh.Surface) (raw tetmesh.RawMesh, err error) {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	path := e.Path
	if path == "" {
		path = "tetgen"
	}
	dir, err := os.MkdirTemp(e.Dir, "tetgen-")
	if err != nil {
		return raw, err
	}
	if e.Keep {
		log.Info("keeping tetgen work directory", zap.String("dir", dir))
	} else {
		defer os.RemoveAll(dir)
	}
	if err := writeInput(filepath.Join(dir, inputName), s); err != nil {
		return raw, err
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	args := []string{inputName}
	if switches != "" {
		args = []string{"-" + strings.TrimPrefix(switches, "-"), inputName}
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second
	start := time.Now()
	err = cmd.Run()
	log.Debug("tetgen finished", zap.Strings("args", args), zap.Duration("elapsed", time.Since(start)),
		zap.Int("outputBytes", out.Len()))
	if err != nil {
		return raw, runError(ctx, switches, err, out.Bytes())
	}
	return readOutput(filepath.Join(dir, outputStem))
}

func writeInput(path string, s tetmesh.Surface) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := surface.WriteSMesh(fp, s); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

func runError(ctx context.Context, switches string, err error, output []byte) error {
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		return &tetmesh.TetrahedralizeError{Kind: tetmesh.Crashed, Switches: switches, Err: fmt.Errorf("tetgen killed: %w", ctx.Err())}
	case errors.As(err, &exitErr) && exitErr.ExitCode() == -1:
		return &tetmesh.TetrahedralizeError{Kind: tetmesh.Crashed, Switches: switches, Err: fmt.Errorf("tetgen %v%s", err, lastLines(output))}
	}
	return &tetmesh.TetrahedralizeError{Kind: tetmesh.Failed, Switches: switches, Err: fmt.Errorf("tetgen %w%s", err, lastLines(output))}
}

// lastLines returns the tail of the program output for error messages.
func lastLines(output []byte) string {
	const maxLines = 5
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return ": " + strings.Join(lines, " | ")
}

func readOutput(stem string) (raw tetmesh.RawMesh, err error) {
	err = readFile(stem+".node", func(fp *os.File) (err error) {
		raw.Points, _, err = ReadNode(fp)
		return err
	})
	if err != nil {
		return raw, err
	}
	err = readFile(stem+".ele", func(fp *os.File) (err error) {
		raw.Tetras, raw.Attributes, err = ReadEle(fp)
		return err
	})
	if err != nil {
		return raw, err
	}
	err = readFile(stem+".face", func(fp *os.File) (err error) {
		raw.Faces, err = ReadFace(fp)
		return err
	})
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	return raw, err
}

func readFile(path string, parse func(*os.File) error) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := parse(fp); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
