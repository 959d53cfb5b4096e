package catalog

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

// Kind distinguishes prompts whose answers are runnable HTML artifacts
// from plain question-and-answer prompts.
type Kind string

const (
	KindCoding Kind = "coding"
	KindText   Kind = "text"
)

// Prompt is a named unit of work sent to every selected provider.
type Prompt struct {
	Name   string `yaml:"name" json:"name"`
	Text   string `yaml:"text" json:"text"`
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	Kind   Kind   `yaml:"kind" json:"kind"`
}

// FullText returns the instruction actually sent to the provider.
func (p Prompt) FullText() string {
	return p.Text + p.Suffix
}

// Ext returns the artifact file extension for this prompt kind.
func (p Prompt) Ext() string {
	if p.Kind == KindCoding {
		return ".html"
	}
	return ".txt"
}

// ArtifactName returns the output file name for a (prompt, provider) pair.
func (p Prompt) ArtifactName(providerKey string) string {
	return p.Name + "_" + providerKey + p.Ext()
}

// Catalog holds an ordered set of prompts keyed by name.
type Catalog struct {
	prompts []Prompt
	byName  map[string]Prompt
}

// New builds a catalog from an ordered prompt list.
func New(prompts []Prompt) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Prompt, len(prompts))}
	for _, p := range prompts {
		if p.Name == "" {
			return nil, fmt.Errorf("prompt with empty name")
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate prompt name %q", p.Name)
		}
		c.prompts = append(c.prompts, p)
		c.byName[p.Name] = p
	}
	return c, nil
}

// LoadFile reads a YAML prompt catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt file: %w", err)
	}
	var prompts []Prompt
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parsing prompt file %s: %w", path, err)
	}
	for i := range prompts {
		if prompts[i].Kind == "" {
			prompts[i].Kind = KindText
		}
	}
	return New(prompts)
}

// Names returns prompt names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.prompts))
	for _, p := range c.prompts {
		names = append(names, p.Name)
	}
	return names
}

// All returns every prompt in catalog order.
func (c *Catalog) All() []Prompt {
	out := make([]Prompt, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// Get looks up a single prompt by name.
func (c *Catalog) Get(name string) (Prompt, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Select resolves a list of prompt names to prompts, preserving catalog
// order. An empty selection means all prompts.
func (c *Catalog) Select(names []string) ([]Prompt, error) {
	if len(names) == 0 {
		return c.All(), nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := c.byName[name]; !ok {
			return nil, fmt.Errorf("unknown prompt %q (available: %v)", name, c.Names())
		}
		wanted[name] = true
	}
	var out []Prompt
	for _, p := range c.prompts {
		if wanted[p.Name] {
			out = append(out, p)
		}
	}
	return out, nil
}
