// Package config reads the YAML game template and writes the generated
// program back out. Every top-level field the generator does not own is
// copied to the output unchanged.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ttmemory/pkg/compiler"
	"ttmemory/pkg/logger"
)

const logTag = "config"

// ErrConfig is returned for templates the generator cannot work with.
var ErrConfig = errors.New("configuration error")

// Defaults of the memory section.
const (
	DefaultImgWidth  = 190.0
	DefaultImgHeight = 270.0
	DefaultPixelSize = 2
	DefaultDPI       = 1200
	DefaultMediaPath = "media/%s"
)

// Memory is the "memory" section of a template.
type Memory struct {
	Pairs             []string `yaml:"pairs"`
	MaxPlayers        int      `yaml:"maxPlayers"`
	AlternativeSounds bool     `yaml:"alternativeSounds"`

	// board dimensions in mm
	ImgWidth  float64 `yaml:"imgWidth"`
	ImgHeight float64 `yaml:"imgHeight"`
	PixelSize int     `yaml:"pixelSize"`
	DPI       int     `yaml:"dpi"`

	OutputFile  string `yaml:"outputFile"`
	OutputImage string `yaml:"outputImage"`
	Title       string `yaml:"title"`
}

// SpeakEntry is a narration label spoken by text-to-speech when no audio
// file exists for it.
type SpeakEntry struct {
	Label string
	Text  string
}

// Template is a loaded game template.
type Template struct {
	Path      string
	ProductID int
	Language  string
	Welcome   string
	MediaPath string
	Memory    Memory

	Speak       []SpeakEntry
	ScriptCodes compiler.Codes

	// root mapping of the document without the memory section
	root *yaml.Node
}

// Load reads and validates a template file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return Parse(data, path)
}

// Parse validates template data. Output names are derived from path.
func Parse(data []byte, path string) (*Template, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: invalid input file", ErrConfig, path)
	}

	t := &Template{
		Path:      path,
		Language:  compiler.DefaultLanguage,
		MediaPath: DefaultMediaPath,
		root:      doc.Content[0],
	}

	if n := t.take("memory"); n != nil {
		if err := n.Decode(&t.Memory); err != nil {
			return nil, fmt.Errorf("%w: memory section: %v", ErrConfig, err)
		}
	} else {
		logger.Log(logTag, `"memory" section not found in yaml file, using default values for all settings`)
	}

	n := t.get("product-id")
	if n == nil {
		return nil, fmt.Errorf("%w: no \"product-id\" found in %s", ErrConfig, path)
	}
	if err := n.Decode(&t.ProductID); err != nil {
		return nil, fmt.Errorf("%w: product-id: %v", ErrConfig, err)
	}
	if len(t.Memory.Pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs in the memory section of %s", ErrConfig, path)
	}

	for key, dst := range map[string]*string{"language": &t.Language, "welcome": &t.Welcome, "media-path": &t.MediaPath} {
		if n := t.get(key); n != nil {
			if err := n.Decode(dst); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrConfig, key, err)
			}
		}
	}
	if t.Welcome == "" {
		logger.Logf(logTag, `no "welcome" narration, restart ends with %s_welcome`, t.Language)
	}

	if n := t.get("speak"); n != nil {
		if n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: speak must be a mapping", ErrConfig)
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			t.Speak = append(t.Speak, SpeakEntry{Label: n.Content[i].Value, Text: n.Content[i+1].Value})
		}
	}
	if n := t.get("scriptcodes"); n != nil {
		if err := n.Decode(&t.ScriptCodes); err != nil {
			return nil, fmt.Errorf("%w: scriptcodes: %v", ErrConfig, err)
		}
	}

	t.applyDefaults()
	if err := t.checkOutputs(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Template) applyDefaults() {
	m := &t.Memory
	if m.MaxPlayers == 0 {
		m.MaxPlayers = compiler.DefaultMaxPlayers
	}
	if m.ImgWidth == 0 {
		m.ImgWidth = DefaultImgWidth
	}
	if m.ImgHeight == 0 {
		m.ImgHeight = DefaultImgHeight
	}
	if m.PixelSize == 0 {
		m.PixelSize = DefaultPixelSize
	}
	if m.DPI == 0 {
		m.DPI = DefaultDPI
	}
	if m.Title == "" {
		m.Title = compiler.DefaultTitle
	}

	base := strings.TrimSuffix(t.Path, filepath.Ext(t.Path))
	if m.OutputFile == "" {
		m.OutputFile = base + "-generated.yaml"
	}
	if m.OutputImage == "" {
		m.OutputImage = fmt.Sprintf("%s-%ddpi-%dmm.png", base, m.DPI, m.PixelSize)
	}
}

// checkOutputs refuses output paths that would overwrite the template.
func (t *Template) checkOutputs() error {
	in, err := absPath(t.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	for _, out := range []struct{ what, path string }{
		{"output file", t.Memory.OutputFile},
		{"output image file", t.Memory.OutputImage},
	} {
		p, err := absPath(out.path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
		if p == in {
			return fmt.Errorf("%w: %s and input file cannot have the same name", ErrConfig, out.what)
		}
	}
	return nil
}

func absPath(p string) (string, error) {
	return filepath.Abs(p)
}

// Definition returns the game definition described by the template.
func (t *Template) Definition() compiler.Definition {
	return compiler.Definition{
		Pairs:             t.Memory.Pairs,
		MaxPlayers:        t.Memory.MaxPlayers,
		AlternativeSounds: t.Memory.AlternativeSounds,
		Language:          t.Language,
		Title:             t.Memory.Title,
		Welcome:           t.Welcome,
	}
}

// MediaPattern returns the media path template resolved against the
// directory of the template file.
func (t *Template) MediaPattern() string {
	if filepath.IsAbs(t.MediaPath) {
		return t.MediaPath
	}
	return filepath.Join(filepath.Dir(t.Path), t.MediaPath)
}

// SpeakWithPairs returns the speak entries of the template extended by a
// default entry for every card label that has none.
func (t *Template) SpeakWithPairs(def compiler.Definition) []SpeakEntry {
	out := append([]SpeakEntry(nil), t.Speak...)
	have := make(map[string]bool)
	for _, e := range out {
		have[e.Label] = true
	}
	for i, p := range def.Pairs {
		labels := []string{p}
		if def.AlternativeSounds {
			labels = []string{p + "_a", p + "_b"}
		}
		for _, l := range labels {
			if !have[l] {
				have[l] = true
				out = append(out, SpeakEntry{Label: l, Text: def.Pairs[i]})
			}
		}
	}
	return out
}

// get returns the value node of a top-level key.
func (t *Template) get(key string) *yaml.Node {
	for i := 0; i+1 < len(t.root.Content); i += 2 {
		if t.root.Content[i].Value == key {
			return t.root.Content[i+1]
		}
	}
	return nil
}

// take removes a top-level key and returns its value node.
func (t *Template) take(key string) *yaml.Node {
	for i := 0; i+1 < len(t.root.Content); i += 2 {
		if t.root.Content[i].Value == key {
			v := t.root.Content[i+1]
			t.root.Content = append(t.root.Content[:i], t.root.Content[i+2:]...)
			return v
		}
	}
	return nil
}

// put sets a top-level key, replacing an existing value in place or
// appending the key.
func (t *Template) put(key string, value *yaml.Node) {
	for i := 0; i+1 < len(t.root.Content); i += 2 {
		if t.root.Content[i].Value == key {
			t.root.Content[i+1] = value
			return
		}
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	t.root.Content = append(t.root.Content, k, value)
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// Render produces the generated document: the template without its memory
// section plus init, scripts, speak and scriptcodes. Speak is dropped when
// no entry is left.
func (t *Template) Render(p *compiler.Program, speak []SpeakEntry, playMode bool) ([]byte, error) {
	t.put("init", scalar(p.Init.String()))

	scripts := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, s := range p.Render(playMode) {
		var v *yaml.Node
		if len(s.Lines) == 1 {
			v = scalar(s.Lines[0])
		} else {
			v = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, l := range s.Lines {
				v.Content = append(v.Content, scalar(l))
			}
		}
		scripts.Content = append(scripts.Content, scalar(s.Name), v)
	}
	t.put("scripts", scripts)

	if len(speak) == 0 {
		t.take("speak")
	} else {
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range speak {
			n.Content = append(n.Content, scalar(e.Label), scalar(e.Text))
		}
		t.put("speak", n)
	}

	codes := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range p.Codes.Names() {
		codes.Content = append(codes.Content, scalar(name), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(p.Codes[name])})
	}
	t.put("scriptcodes", codes)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the generated document into the output file.
func (t *Template) Write(p *compiler.Program, speak []SpeakEntry, playMode bool) error {
	data, err := t.Render(p, speak, playMode)
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.Memory.OutputFile, data, 0o644); err != nil {
		return err
	}
	logger.Logf(logTag, "generated file: %s", t.Memory.OutputFile)
	return nil
}

// LoadProgram loads a template and compiles the game it describes, keeping
// the codes already assigned in the template.
func LoadProgram(path string) (*Template, *compiler.Program, error) {
	t, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := compiler.Compile(t.Definition(), t.ScriptCodes)
	if err != nil {
		return nil, nil, err
	}
	return t, p, nil
}
