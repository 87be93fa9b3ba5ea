package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectErr    bool
		expectedAddr *Address
	}{
		{
			name: "task and output key",
			raw:  "scan.subdomains",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("scan"), NewPathSegment("subdomains")},
			},
		},
		{
			name: "nested keys with indices",
			raw:  "crawl.pages[0].links[15]",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("crawl"), NewPathSegmentWithIndex("pages", 0), NewPathSegmentWithIndex("links", 15)},
			},
		},
		{
			name: "bare task name",
			raw:  "fetch-data",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("fetch-data")},
			},
		},
		{name: "error - empty path segment", raw: "a..b", expectErr: true},
		{name: "error - invalid index", raw: "a.b[x]", expectErr: true},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - hyphen segment", raw: "a.b.-.c", expectErr: true},
		{name: "error - just dot", raw: ".", expectErr: true},
		{name: "error - trailing dot", raw: "scan.", expectErr: true},
		{name: "error - placeholder syntax", raw: "scan.${item}", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.raw)

			if tc.expectErr {
				require.ErrorIs(t, err, ErrInvalidPath)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, addr)
			assert.True(t, tc.expectedAddr.Equal(addr), "parsed address does not match expected address")
		})
	}
}

func TestAddress_RootAndRest(t *testing.T) {
	t.Parallel()

	addr, err := Parse("scan.results[1].urls")
	require.NoError(t, err)

	assert.Equal(t, "scan", addr.Root())
	assert.Equal(t, []PathSegment{NewPathSegmentWithIndex("results", 1), NewPathSegment("urls")}, addr.Rest())

	single, err := Parse("scan")
	require.NoError(t, err)
	assert.Equal(t, "scan", single.Root())
	assert.Nil(t, single.Rest())

	var nilAddr *Address
	assert.Empty(t, nilAddr.Root())
}
