package decision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyCatalog = errors.New("decision catalog is empty")

// Catalog is the ordered, read-only set of decisions. It is built once at
// startup and shared by reference; nothing mutates it afterwards.
type Catalog struct {
	decisions []Decision
	byID      map[string]int
}

// NewCatalog builds a catalog from decisions, preserving their order.
func NewCatalog(decisions []Decision) (*Catalog, error) {
	if len(decisions) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		decisions: slices.Clone(decisions),
		byID:      make(map[string]int, len(decisions)),
	}
	for i, d := range c.decisions {
		if d.ID == "" {
			return nil, fmt.Errorf("decision at index %d has no id", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate decision id %q", d.ID)
		}
		if len(d.Choices) == 0 {
			return nil, fmt.Errorf("decision %q has no choices", d.ID)
		}
		c.byID[d.ID] = i
	}
	return c, nil
}

// Decisions returns the decisions in catalog order. The returned slice is a
// copy; the Decision values share effect and consequence maps with the
// catalog and must be treated as read-only.
func (c *Catalog) Decisions() []Decision {
	return slices.Clone(c.decisions)
}

func (c *Catalog) Len() int {
	return len(c.decisions)
}

// Get looks up a decision by id.
func (c *Catalog) Get(id string) (Decision, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Decision{}, false
	}
	return c.decisions[i], true
}

// Format is a catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension: %s", filepath.Base(path))
	}
}

// Parse decodes a list of decisions. With strict set, unknown fields are
// rejected.
func Parse(data []byte, format Format, strict bool) ([]Decision, error) {
	var decisions []Decision
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&decisions); err != nil {
			return nil, fmt.Errorf("failed to decode json catalog: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(strict)
		if err := dec.Decode(&decisions); err != nil {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %q", format)
	}
	return decisions, nil
}

// LoadCatalog reads a JSON or YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	decisions, err := Parse(data, format, false)
	if err != nil {
		return nil, err
	}
	return NewCatalog(decisions)
}
