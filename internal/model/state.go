package model

import "sort"

// State is the accumulating mapping threaded through the ordered agent
// sequence. Keys are only ever added or overwritten, never removed.
// Merge returns a new State so earlier snapshots stay valid; agents
// receive a snapshot and return a delta for the orchestrator to fold in.
type State struct {
	data map[string]interface{}
}

// NewState seeds a state from an initial input mapping
func NewState(initial map[string]interface{}) State {
	data := make(map[string]interface{}, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return State{data: data}
}

// Merge returns a copy of the state with the delta stored under key.
// Scoping each delta to its producer's key keeps agents from clobbering
// each other's output.
func (s State) Merge(key string, delta map[string]interface{}) State {
	merged := make(map[string]interface{}, len(s.data)+1)
	for k, v := range s.data {
		merged[k] = v
	}
	merged[key] = delta
	return State{data: merged}
}

// Snapshot returns a copy of the underlying mapping
func (s State) Snapshot() map[string]interface{} {
	out := make(map[string]interface{}, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Get returns the value stored under key
func (s State) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the string stored under key, or ""
func (s State) GetString(key string) string {
	if v, ok := s.data[key].(string); ok {
		return v
	}
	return ""
}

// GetMap returns the nested mapping stored under key, or nil
func (s State) GetMap(key string) map[string]interface{} {
	if v, ok := s.data[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

// GetStrings returns the string slice stored under key. Values decoded
// from JSON arrive as []interface{}, so both shapes are handled.
func (s State) GetStrings(key string) []string {
	switch v := s.data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Keys returns the sorted key set
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of top-level keys
func (s State) Len() int {
	return len(s.data)
}
