// Package asm drives the external tttool binary: assembling the generated
// YAML into a GME file, running its interactive play mode and rendering
// optical code images for the board.
package asm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"ttmemory/pkg/logger"
)

const logTag = "tttool"

// ErrTool is returned when tttool is missing or fails.
var ErrTool = errors.New("tttool error")

// DefaultPath is where tttool is looked for when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("bin", "tttool")
	}
	return filepath.Join(home, "bin", "tttool")
}

// Tool runs one tttool executable.
type Tool struct {
	Path string

	// connected to the play mode session. nil means the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// New returns a tool for the executable at path, or at DefaultPath when
// path is empty.
func New(path string) *Tool {
	if path == "" {
		path = DefaultPath()
	}
	return &Tool{Path: path}
}

// Check reports an error if the executable does not exist.
func (t *Tool) Check() error {
	info, err := os.Stat(t.Path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: tttool executable not found at %s. Please copy/link the tttool to this location or specify the correct path", ErrTool, t.Path)
	}
	return nil
}

// run executes tttool in dir and returns its combined output.
func (t *Tool) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	// a relative path would be resolved against dir by the child
	path, err := filepath.Abs(t.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTool, err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Logf(logTag, "%s %s", t.Path, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return out.Bytes(), fmt.Errorf("%w: %s %s: %v\n%s", ErrTool, filepath.Base(t.Path), strings.Join(args, " "), err, strings.TrimSpace(out.String()))
	}
	return out.Bytes(), nil
}

// GMEPath returns the file tttool assembles a YAML file into.
func GMEPath(yamlPath string) string {
	return strings.TrimSuffix(yamlPath, filepath.Ext(yamlPath)) + ".gme"
}

// Assemble builds the GME file for a YAML file and returns its path.
func (t *Tool) Assemble(ctx context.Context, yamlPath string) (string, error) {
	if _, err := t.run(ctx, "", "assemble", yamlPath); err != nil {
		return "", err
	}
	gme := GMEPath(yamlPath)
	logger.Logf(logTag, "assembled %s", gme)
	return gme, nil
}

// Play starts the interactive play mode on a YAML file and returns when the
// session ends.
func (t *Tool) Play(ctx context.Context, yamlPath string) error {
	if err := t.Check(); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, t.Path, "play", yamlPath)
	cmd.Stdin = t.Stdin
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stdout
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	logger.Logf(logTag, "play %s", yamlPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: play: %v", ErrTool, err)
	}
	return nil
}

// OIDParams are the rendering settings of optical code images.
type OIDParams struct {
	DPI       int
	PixelSize int

	// edge length of the rendered code in mm
	CodeDim float64
}

// OIDCode returns a PNG file with the optical code for code. Files are
// cached in cacheDir and only rendered once per code and settings.
func (t *Tool) OIDCode(ctx context.Context, code int, p OIDParams, cacheDir string) (string, error) {
	if err := EnsureCacheDir(cacheDir); err != nil {
		return "", err
	}

	cached := filepath.Join(cacheDir, fmt.Sprintf("oid-%d-%ddpi-%dpx.png", code, p.DPI, p.PixelSize))
	if info, err := os.Stat(cached); err == nil && info.Mode().IsRegular() {
		return cached, nil
	}

	_, err := t.run(ctx, cacheDir,
		"--code-dim", strconv.FormatFloat(p.CodeDim, 'f', -1, 64),
		"--pixel-size", strconv.Itoa(p.PixelSize),
		"--dpi", strconv.Itoa(p.DPI),
		"oid-code", strconv.Itoa(code))
	if err != nil {
		return "", err
	}

	rendered := filepath.Join(cacheDir, fmt.Sprintf("oid-%d.png", code))
	if err := os.Rename(rendered, cached); err != nil {
		return "", fmt.Errorf("%w: oid-code %d: %v", ErrTool, code, err)
	}
	return cached, nil
}

// EnsureCacheDir creates the tile cache directory. An existing file of the
// same name is an error.
func EnsureCacheDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}
	return nil
}
