package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "5", want: 5 * time.Second},
		{raw: "0.5", want: 500 * time.Millisecond},
		{raw: "250ms", want: 250 * time.Millisecond},
		{raw: "-1", wantErr: true},
		{raw: "-1s", wantErr: true},
		{raw: "later", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimeout(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
