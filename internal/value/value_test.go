package value

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"
)

func scanOutput(t *testing.T) cty.Value {
	t.Helper()
	out, err := FromGo(map[string]any{
		"target": "example.com",
		"subdomains": []any{
			map[string]any{"url": "a.example.com", "status": "active"},
			map[string]any{"url": "b.example.com", "status": "inactive"},
		},
		"total_found": 2,
		"meta":        map[string]string{"source": "dns"},
	})
	require.NoError(t, err)
	return out
}

func TestWalk(t *testing.T) {
	t.Parallel()
	out := scanOutput(t)

	testCases := []struct {
		name    string
		path    string
		want    cty.Value
		wantErr error
	}{
		{name: "top level key", path: "target", want: cty.StringVal("example.com")},
		{name: "number", path: "total_found", want: cty.NumberIntVal(2)},
		{name: "indexed element", path: "subdomains[1].url", want: cty.StringVal("b.example.com")},
		{name: "nested mapping", path: "meta.source", want: cty.StringVal("dns")},
		{name: "missing key", path: "missing", wantErr: ErrPathNotFound},
		{name: "missing nested key", path: "meta.region", wantErr: ErrPathNotFound},
		{name: "index out of range", path: "subdomains[5]", wantErr: ErrPathNotFound},
		{name: "descend into string", path: "target.host", wantErr: ErrTypeMismatch},
		{name: "index into mapping", path: "meta[0]", wantErr: ErrTypeMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Lookup(out, tc.path)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				var pathErr *PathError
				require.ErrorAs(t, err, &pathErr)
				assert.Equal(t, tc.path, pathErr.Path)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.RawEquals(got), "got %#v", got)
		})
	}
}

func TestWalk_NullIsNotAMapping(t *testing.T) {
	t.Parallel()

	_, err := Lookup(cty.NullVal(cty.DynamicPseudoType), "anything")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestList(t *testing.T) {
	t.Parallel()

	elems, err := List(cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}))
	require.NoError(t, err)
	assert.Len(t, elems, 2)

	elems, err = List(cty.EmptyTupleVal)
	require.NoError(t, err)
	assert.NotNil(t, elems)
	assert.Empty(t, elems)

	_, err = List(cty.StringVal("a"))
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = List(cty.EmptyObjectVal)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestToGo(t *testing.T) {
	t.Parallel()

	got, err := ToGo(scanOutput(t))
	require.NoError(t, err)

	want := map[string]any{
		"target": "example.com",
		"subdomains": []any{
			map[string]any{"url": "a.example.com", "status": "active"},
			map[string]any{"url": "b.example.com", "status": "inactive"},
		},
		"total_found": int64(2),
		"meta":        map[string]any{"source": "dns"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToGo mismatch (-want +got):\n%s", diff)
	}
}

func TestFromGo_Struct(t *testing.T) {
	t.Parallel()

	type envOutput struct {
		All map[string]string `cty:"all"`
	}
	got, err := FromGo(envOutput{All: map[string]string{"HOME": "/root"}})
	require.NoError(t, err)

	home, err := Lookup(got, "all.HOME")
	require.NoError(t, err)
	assert.Equal(t, "/root", home.AsString())
}

func TestString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   cty.Value
		want string
	}{
		{"string verbatim", cty.StringVal("a.example.com"), "a.example.com"},
		{"whole number", cty.NumberIntVal(42), "42"},
		{"whole float", cty.NumberFloatVal(3), "3"},
		{"fraction", cty.NumberFloatVal(0.25), "0.25"},
		{"bool", cty.True, "true"},
		{"null", cty.NullVal(cty.String), "null"},
		{"list", cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("x")}), `[1,"x"]`},
		{"object", cty.ObjectVal(map[string]cty.Value{"url": cty.StringVal("u")}), `{"url":"u"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, String(tc.in))
		})
	}
}

func TestFromGo_NormalizesStrings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"ascii unchanged", "a.example.com", "a.example.com"},
		{"en quad folds to en space", "\u2000", "\u2002"},
		{"decomposed e acute composes", "e\u0301", "\u00e9"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			cv, err := FromGo(map[string]any{"s": tc.in})
			require.NoError(t, err)
			back, err := ToGo(cv)
			require.NoError(t, err)

			// --- Assert ---
			assert.Equal(t, map[string]any{"s": tc.want}, back)
		})
	}
}

func TestFromGo_RejectsNaN(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   any
	}{
		{"float64", math.NaN()},
		{"float32", float32(math.NaN())},
		{"nested in list", []any{1, math.NaN()}},
		{"nested in map", map[string]any{"x": math.NaN()}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := FromGo(tc.in)

			assert.ErrorIs(t, err, ErrNotANumber)
		})
	}
}

// Strings are drawn from printable ASCII so NFC normalization is a no-op.
func TestFromGoToGo_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.MapOf(
			rapid.StringMatching(`[a-z]{1,8}`),
			rapid.OneOf(
				rapid.Map(rapid.StringMatching(`[ -~]{0,16}`), func(s string) any { return s }),
				rapid.Map(rapid.Int64Range(-1<<40, 1<<40), func(i int64) any { return i }),
				rapid.Map(rapid.Bool(), func(b bool) any { return b }),
			),
		).Draw(t, "m")

		cv, err := FromGo(map[string]any(m))
		if err != nil {
			t.Fatalf("FromGo: %v", err)
		}
		back, err := ToGo(cv)
		if err != nil {
			t.Fatalf("ToGo: %v", err)
		}
		if diff := cmp.Diff(map[string]any(m), back); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
	})
}
