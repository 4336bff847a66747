// Package catalog provides the read-only node definition catalog: a
// registry of static node-type schemas (ports, controls, category,
// platforms) populated once at startup and consulted by the editor and the
// scheduler.
package catalog

import (
	"strings"
	"sync"

	"github.com/nodeforge/dataflow/pkg/types"
)

// Catalog is a read-only mapping nodeType -> NodeDefinition. It is safe for
// concurrent reads while being populated at startup under Register.
type Catalog struct {
	mu          sync.RWMutex
	definitions map[types.NodeType]types.NodeDefinition
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		definitions: make(map[types.NodeType]types.NodeDefinition),
	}
}

// Register adds or replaces a node definition.
func (c *Catalog) Register(def types.NodeDefinition) error {
	if def.NodeType == "" {
		return ErrEmptyNodeType
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[def.NodeType] = def
	return nil
}

// MustRegister registers a definition and panics on error.
func (c *Catalog) MustRegister(def types.NodeDefinition) {
	if err := c.Register(def); err != nil {
		panic(err)
	}
}

// Get returns the definition for a node type.
func (c *Catalog) Get(nodeType types.NodeType) (types.NodeDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[nodeType]
	return def, ok
}

// All returns every registered definition, in no particular order.
func (c *Catalog) All() []types.NodeDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.NodeDefinition, 0, len(c.definitions))
	for _, def := range c.definitions {
		out = append(out, def)
	}
	return out
}

// ByCategory returns every registered definition in the given category.
func (c *Catalog) ByCategory(category string) []types.NodeDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []types.NodeDefinition
	for _, def := range c.definitions {
		if def.Category == category {
			out = append(out, def)
		}
	}
	return out
}

// FilteredBy is a fuzzy, case-insensitive substring search over label and
// node type, optionally narrowed to one category. This is an editor
// convenience; the scheduler only ever calls Get.
func (c *Catalog) FilteredBy(query, category string) []types.NodeDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	var out []types.NodeDefinition
	for _, def := range c.definitions {
		if category != "" && def.Category != category {
			continue
		}
		if query == "" ||
			strings.Contains(strings.ToLower(def.Label), query) ||
			strings.Contains(strings.ToLower(string(def.NodeType)), query) {
			out = append(out, def)
		}
	}
	return out
}
