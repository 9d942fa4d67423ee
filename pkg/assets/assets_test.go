package assets

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWav(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           make([]int, 800),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("wav Write failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("wav Close failed: %v", err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, "dog.wav"))
	touch(t, filepath.Join(dir, "cat.ogg"))
	touch(t, filepath.Join(dir, "broken.wav"))
	touch(t, filepath.Join(dir, "broken.mp3"))
	touch(t, filepath.Join(dir, "both.wav"))
	touch(t, filepath.Join(dir, "both.flac"))
	if err := os.Mkdir(filepath.Join(dir, "folder.ogg"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	r := NewResolver(filepath.Join(dir, "%s"))
	tests := []struct {
		label string
		want  string
	}{
		{"dog", "dog.wav"},
		{"cat", "cat.ogg"},
		{"broken", ""},
		{"both", "both.flac"},
		{"folder", ""},
		{"none", ""},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, ok := r.Resolve(tc.label)
			if tc.want == "" {
				if ok {
					t.Errorf("Resolve(%s) = %s; want none", tc.label, got)
				}
				return
			}
			if !ok || got != filepath.Join(dir, tc.want) {
				t.Errorf("Resolve(%s) = %s, %v; want %s", tc.label, got, ok, tc.want)
			}
		})
	}

	missing := r.Missing([]string{"dog", "none", "cat", "broken"})
	if !reflect.DeepEqual(missing, []string{"none", "broken"}) {
		t.Errorf("Missing = %v", missing)
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	writeWav(t, good)
	if err := Probe(good); err != nil {
		t.Errorf("Probe(valid wav) = %v", err)
	}

	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("not a riff file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := Probe(bad); !errors.Is(err, ErrInvalidAsset) {
		t.Errorf("Probe(bad wav) = %v; want ErrInvalidAsset", err)
	}

	empty := filepath.Join(dir, "empty.mp3")
	touch(t, empty)
	if err := Probe(empty); !errors.Is(err, ErrInvalidAsset) {
		t.Errorf("Probe(empty mp3) = %v; want ErrInvalidAsset", err)
	}

	if err := Probe(filepath.Join(dir, "anything.ogg")); err != nil {
		t.Errorf("Probe(ogg) = %v; other formats are not decoded", err)
	}
}

func TestMediaPathTemplate(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "en"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	touch(t, filepath.Join(dir, "en", "hello.flac"))

	r := &Resolver{MediaPath: filepath.Join(dir, "en", "%s"), Extensions: []string{".flac"}}
	if _, ok := r.Resolve("hello"); !ok {
		t.Errorf("label not found through the media path template")
	}
	r.Extensions = []string{".wav"}
	if _, ok := r.Resolve("hello"); ok {
		t.Errorf("extension list not honoured")
	}
}
