package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ToolFunc is a named capability an agent can invoke by name. Tools
// wrap external actions (searches, lookups, publishing calls) so
// agents depend on the registry, not on concrete services.
type ToolFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// ToolRegistry is a concurrency-safe name-to-tool map shared by the
// agents of one pipeline run
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]ToolFunc
}

// NewToolRegistry creates an empty registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]ToolFunc)}
}

// Register adds or replaces a tool under the given name
func (r *ToolRegistry) Register(name string, tool ToolFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = tool
}

// Invoke calls the named tool, erroring if it is not registered
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return tool(ctx, args)
}

// Names returns the registered tool names in sorted order
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
