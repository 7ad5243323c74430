package content

import (
	"context"
	"sync"
)

// InMemoryCatalog holds templates in process memory.
type InMemoryCatalog struct {
	mu        sync.RWMutex
	templates map[string]Template
}

func NewInMemory() *InMemoryCatalog {
	return &InMemoryCatalog{templates: make(map[string]Template)}
}

// Put inserts or replaces a template.
func (c *InMemoryCatalog) Put(template Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[template.RefID] = template
}

func (c *InMemoryCatalog) FetchByRefs(_ context.Context, refIDs []string) ([]Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Template, 0, len(refIDs))
	for _, ref := range refIDs {
		if t, ok := c.templates[ref]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *InMemoryCatalog) CountActive(ctx context.Context, refIDs []string) (int, error) {
	templates, err := c.FetchByRefs(ctx, refIDs)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range templates {
		if t.Active {
			count++
		}
	}
	return count, nil
}
