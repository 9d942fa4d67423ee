// Package assets finds the audio files backing narration labels. A label
// without an audio file has to be spoken by text-to-speech.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"ttmemory/pkg/logger"
)

const logTag = "assets"

// Extensions are tried in this order for every label.
var Extensions = []string{".wav", ".ogg", ".flac", ".mp3"}

// ErrInvalidAsset is returned for audio files that exist but cannot be
// decoded.
var ErrInvalidAsset = errors.New("invalid audio file")

// Resolver maps labels to audio files. MediaPath is a file name template in
// which %s stands for the label plus extension.
type Resolver struct {
	MediaPath  string
	Extensions []string
}

// NewResolver returns a resolver using the default extensions.
func NewResolver(mediaPath string) *Resolver {
	return &Resolver{MediaPath: mediaPath, Extensions: Extensions}
}

func (r *Resolver) candidate(label, ext string) string {
	return strings.ReplaceAll(r.MediaPath, "%s", label+ext)
}

// Resolve returns the first usable audio file for a label.
func (r *Resolver) Resolve(label string) (string, bool) {
	for _, ext := range r.Extensions {
		path := r.candidate(label, ext)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := Probe(path); err != nil {
			logger.Logf(logTag, "ignoring %s: %v", path, err)
			continue
		}
		return path, true
	}
	return "", false
}

// Missing returns the labels without an audio file, in input order.
func (r *Resolver) Missing(labels []string) []string {
	var missing []string
	for _, l := range labels {
		if _, ok := r.Resolve(l); !ok {
			missing = append(missing, l)
		}
	}
	return missing
}

// Probe checks that the header of a wav or mp3 file decodes. Other formats
// are accepted as they are.
func Probe(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".mp3" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case ".wav":
		dec := wav.NewDecoder(f)
		if dec == nil || !dec.IsValidFile() {
			return fmt.Errorf("%w: not a valid wav file", ErrInvalidAsset)
		}
	case ".mp3":
		if _, err := mp3.NewDecoder(f); err != nil {
			return fmt.Errorf("%w: mp3: %v", ErrInvalidAsset, err)
		}
	}
	return nil
}
