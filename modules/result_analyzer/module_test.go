package result_analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func checkVal(url string, live bool, rt float64) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"url":           cty.StringVal(url),
		"is_live":       cty.BoolVal(live),
		"response_time": cty.NumberFloatVal(rt),
	})
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	groupOut := cty.ObjectVal(map[string]cty.Value{
		"results": cty.TupleVal([]cty.Value{
			checkVal("https://a", true, 0.5),
			checkVal("https://b", false, 1.5),
			checkVal("https://c", true, 1.0),
		}),
	})
	tk, err := registry.New(&Module{}).CreateTask("result_analyzer", "analyze", nil)
	require.NoError(t, err)
	tk.Prepare(map[string]cty.Value{"check": groupOut}, []string{"check"})

	// --- Act ---
	res := tk.Execute(context.Background())

	// --- Assert ---
	require.True(t, res.Success, res.Error())
	out := res.Output
	assert.True(t, out.GetAttr("total_urls").RawEquals(cty.NumberIntVal(3)))
	assert.True(t, out.GetAttr("live_urls").RawEquals(cty.NumberIntVal(2)))
	assert.True(t, out.GetAttr("dead_url_list").RawEquals(cty.ListVal([]cty.Value{cty.StringVal("https://b")})))
	avg, _ := out.GetAttr("average_response_time").AsBigFloat().Float64()
	assert.InDelta(t, 1.0, avg, 1e-9)
}

func TestAnalyze_Empty(t *testing.T) {
	t.Parallel()

	tk, err := registry.New(&Module{}).CreateTask("result_analyzer", "analyze", nil)
	require.NoError(t, err)
	tk.Prepare(map[string]cty.Value{"check": cty.ObjectVal(map[string]cty.Value{"results": cty.EmptyTupleVal})}, []string{"check"})

	res := tk.Execute(context.Background())

	require.True(t, res.Success, res.Error())
	assert.True(t, res.Output.GetAttr("total_urls").RawEquals(cty.NumberIntVal(0)))
	assert.True(t, res.Output.GetAttr("live_url_list").RawEquals(cty.ListValEmpty(cty.String)))
}

func TestAnalyze_MissingSource(t *testing.T) {
	t.Parallel()

	tk, err := registry.New(&Module{}).CreateTask("result_analyzer", "analyze", nil)
	require.NoError(t, err)

	res := tk.Execute(context.Background())

	assert.False(t, res.Success)
}
