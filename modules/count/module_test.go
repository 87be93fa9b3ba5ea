package count

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func TestCount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		config map[string]cty.Value
		deps   map[string]cty.Value
		words  int64
		chars  int64
		lines  int64
	}{
		{
			name:   "from config",
			config: map[string]cty.Value{"text": cty.StringVal("one two\nthree")},
			words:  3, chars: 13, lines: 2,
		},
		{
			name:  "from previous task",
			deps:  map[string]cty.Value{"read": cty.ObjectVal(map[string]cty.Value{"content": cty.StringVal("héllo wörld\n")})},
			words: 2, chars: 12, lines: 1,
		},
		{
			name:   "custom source",
			config: map[string]cty.Value{"source": cty.StringVal("read.body")},
			deps:   map[string]cty.Value{"read": cty.ObjectVal(map[string]cty.Value{"body": cty.StringVal("a b c d")})},
			words:  4, chars: 7, lines: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tk, err := registry.New(&Module{}).CreateTask("count", "c", tc.config)
			require.NoError(t, err)
			tk.Prepare(tc.deps, value.Keys(value.Object(tc.deps)))

			res := tk.Execute(context.Background())

			require.True(t, res.Success, res.Error())
			assert.True(t, res.Output.GetAttr("word_count").RawEquals(cty.NumberIntVal(tc.words)))
			assert.True(t, res.Output.GetAttr("char_count").RawEquals(cty.NumberIntVal(tc.chars)))
			assert.True(t, res.Output.GetAttr("line_count").RawEquals(cty.NumberIntVal(tc.lines)))
		})
	}
}

func TestCount_NoText(t *testing.T) {
	t.Parallel()

	tk, err := registry.New(&Module{}).CreateTask("count", "c", nil)
	require.NoError(t, err)

	res := tk.Execute(context.Background())

	assert.False(t, res.Success)
	assert.ErrorContains(t, res.Err, "no text to count")
}
