// Package locale holds the message catalog used by dialogs, hosts and chat
// reports.
package locale

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed en.yaml
var enCatalog []byte

// Catalog maps dotted message keys to text.
type Catalog struct {
	messages map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded English catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(enCatalog)
		if err != nil {
			panic(fmt.Sprintf("locale: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse reads a nested YAML catalog. Nested maps become dotted keys.
func Parse(data []byte) (*Catalog, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{messages: make(map[string]string)}
	flatten("", root, c.messages)
	return c, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Localize returns the message for key, or the key itself when missing.
func (c *Catalog) Localize(key string) string {
	if c == nil {
		c = Default()
	}
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// Has reports whether key is in the catalog.
func (c *Catalog) Has(key string) bool {
	if c == nil {
		c = Default()
	}
	_, ok := c.messages[key]
	return ok
}

// Format localizes key and substitutes {name} placeholders from args.
// Placeholders without an argument are left as written.
func (c *Catalog) Format(key string, args map[string]any) string {
	msg := c.Localize(key)
	if len(args) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for name, v := range args {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Localize looks up key in the default catalog.
func Localize(key string) string {
	return Default().Localize(key)
}

// Format formats key with the default catalog.
func Format(key string, args map[string]any) string {
	return Default().Format(key, args)
}
