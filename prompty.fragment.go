package prompty

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/prompy-dev/prompy/internal"
	"gopkg.in/yaml.v3"
)

// FragmentMetadata is the parsed `---`-delimited YAML header of a fragment
// file: description and categories. Argument declarations are parsed
// separately (see loadFragment) since positional binding needs their
// declared order, which a plain map cannot preserve.
type FragmentMetadata struct {
	Description string   `yaml:"description"`
	Categories  []string `yaml:"categories"`
}

// ParsedFragment is a fragment file read from disk: its absolute path,
// parsed metadata, raw body (without the frontmatter block), and the
// merged argument declaration table.
type ParsedFragment struct {
	Path     string
	Slug     string
	Metadata FragmentMetadata
	Body     string
	// Arguments maps declared argument name to its default value. A nil
	// value (YAML null, or absent) marks the argument required.
	Arguments map[string]any
	// ArgumentOrder lists declared argument names in frontmatter order,
	// the order positional reference arguments bind against.
	ArgumentOrder []string
}

// FragmentCache caches parsed fragments by canonicalized absolute path so
// that repeated loads of the same file within one render return equal
// values (P4, idempotent loading). A cache is scoped to a single Render
// call per the concurrency model — never shared across renders.
type FragmentCache struct {
	mu      sync.Mutex
	entries map[string]*ParsedFragment
}

// NewFragmentCache creates an empty, render-scoped fragment cache.
func NewFragmentCache() *FragmentCache {
	return &FragmentCache{entries: make(map[string]*ParsedFragment)}
}

// Load reads and parses the fragment at path, returning the cached
// value on repeat calls for the same canonicalized path.
func (c *FragmentCache) Load(path string) (*ParsedFragment, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewFragmentIOError(path, err)
	}

	c.mu.Lock()
	if cached, ok := c.entries[abs]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	fragment, err := loadFragment(abs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[abs] = fragment
	c.mu.Unlock()

	return fragment, nil
}

// loadFragment reads a fragment file from disk and splits it into
// metadata and body, adapting the teacher's YAML-frontmatter scan.
func loadFragment(path string) (*ParsedFragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFragmentIOError(path, err)
	}
	source := string(data)

	fm, err := internal.ExtractYAMLFrontmatter(source)
	if err != nil {
		return nil, NewFrontmatterError(ErrMsgFrontmatterExtract, Position{}, err)
	}

	var metadata FragmentMetadata
	argOrder, args := []string{}, map[string]any{}
	if fm.HasFrontmatter && fm.FrontmatterYAML != "" {
		if err := yaml.Unmarshal([]byte(fm.FrontmatterYAML), &metadata); err != nil {
			return nil, NewFrontmatterParseError(err)
		}
		argOrder, args, err = parseOrderedArguments(fm.FrontmatterYAML)
		if err != nil {
			return nil, NewFrontmatterParseError(err)
		}
	}

	return &ParsedFragment{
		Path:          path,
		Metadata:      metadata,
		Body:          fm.TemplateBody,
		Arguments:     args,
		ArgumentOrder: argOrder,
	}, nil
}

// parseOrderedArguments walks the frontmatter YAML's `arguments` and legacy
// `args` mappings directly as yaml.Node trees, preserving declaration order
// (a plain map[string]any decode loses it). `arguments` entries are merged
// over `args` entries, winning any key collision (resolved Open Question 2);
// the combined order is `arguments`' order followed by any `args`-only keys.
func parseOrderedArguments(frontmatterYAML string) ([]string, map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(frontmatterYAML), &doc); err != nil {
		return nil, nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, map[string]any{}, nil
	}
	root := doc.Content[0]

	argsOrder, argsVals, err := decodeOrderedMapping(root, MetaKeyArgsLegacy)
	if err != nil {
		return nil, nil, err
	}
	argumentsOrder, argumentsVals, err := decodeOrderedMapping(root, MetaKeyArguments)
	if err != nil {
		return nil, nil, err
	}

	merged := make(map[string]any, len(argsVals)+len(argumentsVals))
	for k, v := range argsVals {
		merged[k] = v
	}
	for k, v := range argumentsVals {
		merged[k] = v
	}

	order := append([]string{}, argumentsOrder...)
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
	}
	for _, name := range argsOrder {
		if !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}

	return order, merged, nil
}

// decodeOrderedMapping finds the mapping value of key within a YAML mapping
// node and returns its keys in declaration order alongside their decoded
// values. Returns an empty order and map if key is absent or not a mapping.
func decodeOrderedMapping(mapping *yaml.Node, key string) ([]string, map[string]any, error) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}
		valueNode := mapping.Content[i+1]
		if valueNode.Kind != yaml.MappingNode {
			return nil, map[string]any{}, nil
		}
		order := make([]string, 0, len(valueNode.Content)/2)
		values := make(map[string]any, len(valueNode.Content)/2)
		for j := 0; j+1 < len(valueNode.Content); j += 2 {
			name := valueNode.Content[j].Value
			var v any
			if err := valueNode.Content[j+1].Decode(&v); err != nil {
				return nil, nil, err
			}
			order = append(order, name)
			values[name] = v
		}
		return order, values, nil
	}
	return nil, map[string]any{}, nil
}
