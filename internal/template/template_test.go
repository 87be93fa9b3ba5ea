package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"
)

func TestRender(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		tmpl map[string]cty.Value
		item cty.Value
		want map[string]cty.Value
	}{
		{
			name: "string field substituted, number untouched",
			tmpl: map[string]cty.Value{"url": cty.StringVal("${item}"), "timeout": cty.NumberIntVal(5)},
			item: cty.StringVal("a.com"),
			want: map[string]cty.Value{"url": cty.StringVal("a.com"), "timeout": cty.NumberIntVal(5)},
		},
		{
			name: "every occurrence replaced",
			tmpl: map[string]cty.Value{"msg": cty.StringVal("${item} and ${item}!")},
			item: cty.StringVal("x"),
			want: map[string]cty.Value{"msg": cty.StringVal("x and x!")},
		},
		{
			name: "numeric item formatted without fraction",
			tmpl: map[string]cty.Value{"id": cty.StringVal("user-${item}")},
			item: cty.NumberIntVal(7),
			want: map[string]cty.Value{"id": cty.StringVal("user-7")},
		},
		{
			name: "nested values are not searched",
			tmpl: map[string]cty.Value{
				"headers": cty.ObjectVal(map[string]cty.Value{"host": cty.StringVal("${item}")}),
			},
			item: cty.StringVal("a.com"),
			want: map[string]cty.Value{
				"headers": cty.ObjectVal(map[string]cty.Value{"host": cty.StringVal("${item}")}),
			},
		},
		{
			name: "empty template",
			tmpl: map[string]cty.Value{},
			item: cty.StringVal("a"),
			want: map[string]cty.Value{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Render(tc.tmpl, tc.item)
			require.Len(t, got, len(tc.want))
			for k, want := range tc.want {
				assert.True(t, want.RawEquals(got[k]), "key %q: got %#v", k, got[k])
			}
		})
	}
}

func TestRender_DoesNotMutateTemplate(t *testing.T) {
	t.Parallel()

	tmpl := map[string]cty.Value{"url": cty.StringVal("${item}")}
	_ = Render(tmpl, cty.StringVal("a.com"))

	assert.Equal(t, "${item}", tmpl["url"].AsString())
	assert.True(t, Templated(tmpl))
}

func TestRender_NonStringValuesUnchanged_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nums := rapid.MapOf(rapid.StringMatching(`n[a-z]{0,5}`), rapid.Int64()).Draw(t, "nums")
		strs := rapid.MapOf(rapid.StringMatching(`s[a-z]{0,5}`), rapid.StringMatching(`[a-z ]{0,6}(\$\{item\})?[a-z]{0,3}`)).Draw(t, "strs")
		item := rapid.StringMatching(`[a-z0-9.]{0,10}`).Draw(t, "item")

		tmpl := make(map[string]cty.Value, len(nums)+len(strs))
		for k, n := range nums {
			tmpl[k] = cty.NumberIntVal(n)
		}
		for k, s := range strs {
			tmpl[k] = cty.StringVal(s)
		}

		got := Render(tmpl, cty.StringVal(item))
		if len(got) != len(tmpl) {
			t.Fatalf("key count changed: %d != %d", len(got), len(tmpl))
		}
		for k, n := range nums {
			if !got[k].RawEquals(cty.NumberIntVal(n)) {
				t.Fatalf("number %q changed to %#v", k, got[k])
			}
		}
		for k := range strs {
			if Templated(map[string]cty.Value{k: got[k]}) {
				t.Fatalf("placeholder left in %q: %q", k, got[k].AsString())
			}
		}
	})
}
