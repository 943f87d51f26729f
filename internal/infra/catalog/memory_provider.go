package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ecoscope/siagatani/internal/domain/catalog"
)

//go:embed seed.yaml
var defaultSeed []byte

// MemoryProvider serves catalog rows parsed from a YAML document.
type MemoryProvider struct {
	tables map[string]yaml.Node
}

// NewMemoryProvider parses the seed at path, or the embedded seed when path is empty.
func NewMemoryProvider(path string) (*MemoryProvider, error) {
	raw := defaultSeed
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog seed: %w", err)
		}
		raw = data
	}
	return ParseSeed(raw)
}

// ParseSeed builds a provider from a YAML mapping of key to row list.
func ParseSeed(raw []byte) (*MemoryProvider, error) {
	tables := make(map[string]yaml.Node)
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	for key, node := range tables {
		if node.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("catalog key %q: expected a list of rows", key)
		}
	}
	return &MemoryProvider{tables: tables}, nil
}

// Load implements catalog.Provider.
func (p *MemoryProvider) Load(_ context.Context, key string, dst any) error {
	node, ok := p.tables[key]
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, key)
	}
	if err := node.Decode(dst); err != nil {
		return fmt.Errorf("decode catalog key %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys held by the provider.
func (p *MemoryProvider) Keys() []string {
	out := make([]string, 0, len(p.tables))
	for key := range p.tables {
		out = append(out, key)
	}
	return out
}

var _ catalog.Provider = (*MemoryProvider)(nil)
