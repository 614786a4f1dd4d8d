package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

func TestStateMergeIsImmutable(t *testing.T) {
	base := model.NewState(map[string]interface{}{"product_name": "Widget"})

	merged := base.Merge("research", map[string]interface{}{"insight": "good"})

	// The original snapshot is untouched
	assert.Equal(t, 1, base.Len())
	_, ok := base.Get("research")
	assert.False(t, ok)

	assert.Equal(t, 2, merged.Len())
	research := merged.GetMap("research")
	assert.Equal(t, "good", research["insight"])
	assert.Equal(t, "Widget", merged.GetString("product_name"))
}

func TestStateMergeOverwritesSameKey(t *testing.T) {
	s := model.NewState(nil).
		Merge("stage", map[string]interface{}{"v": 1}).
		Merge("stage", map[string]interface{}{"v": 2})

	assert.Equal(t, 2, s.GetMap("stage")["v"])
}

func TestStateAccessors(t *testing.T) {
	s := model.NewState(map[string]interface{}{
		"name":     "x",
		"keywords": []string{"a", "b"},
		"decoded":  []interface{}{"c", "d", 5},
		"number":   3,
	})

	assert.Equal(t, "x", s.GetString("name"))
	assert.Equal(t, "", s.GetString("number"))
	assert.Equal(t, "", s.GetString("missing"))

	assert.Equal(t, []string{"a", "b"}, s.GetStrings("keywords"))
	// JSON-decoded slices drop non-string members
	assert.Equal(t, []string{"c", "d"}, s.GetStrings("decoded"))
	assert.Nil(t, s.GetStrings("name"))

	assert.Nil(t, s.GetMap("name"))

	assert.Equal(t, []string{"decoded", "keywords", "name", "number"}, s.Keys())
}

func TestNewStateCopiesInput(t *testing.T) {
	initial := map[string]interface{}{"k": "v"}
	s := model.NewState(initial)

	initial["k"] = "mutated"
	assert.Equal(t, "v", s.GetString("k"))
}
