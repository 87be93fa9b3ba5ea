package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// bucket is a minimal pre-signed URL endpoint keeping one object.
type bucket struct {
	mu          sync.Mutex
	body        []byte
	contentType string
}

func (b *bucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		b.body, _ = io.ReadAll(r.Body)
		b.contentType = r.Header.Get("Content-Type")
	case http.MethodGet:
		if b.body == nil {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b.body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3_UploadThenDownload(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	b := &bucket{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	src := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	r := registry.New(&Module{Client: srv.Client()})

	up, err := r.CreateTask("s3", "up", map[string]cty.Value{
		"action":      cty.StringVal("upload"),
		"source_path": cty.StringVal(src),
		"upload_url":  cty.StringVal(srv.URL + "/obj"),
	})
	require.NoError(t, err)
	dst := filepath.Join(dir, "out", "copy.txt")
	down, err := r.CreateTask("s3", "down", map[string]cty.Value{
		"action":           cty.StringVal("Download"),
		"download_url":     cty.StringVal(srv.URL + "/obj"),
		"destination_path": cty.StringVal(dst),
	})
	require.NoError(t, err)

	// --- Act ---
	upRes := up.Execute(context.Background())
	downRes := down.Execute(context.Background())

	// --- Assert ---
	require.True(t, upRes.Success, upRes.Error())
	assert.True(t, upRes.Output.GetAttr("bytes").RawEquals(cty.NumberIntVal(7)))
	assert.Equal(t, "text/plain; charset=utf-8", b.contentType)

	require.True(t, downRes.Success, downRes.Error())
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestS3_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&bucket{})
	t.Cleanup(srv.Close)

	testCases := []struct {
		name    string
		config  map[string]cty.Value
		wantErr error
		wantMsg string
	}{
		{name: "unknown action", config: map[string]cty.Value{"action": cty.StringVal("delete")}, wantErr: ErrUnknownAction},
		{name: "upload without url", config: map[string]cty.Value{"action": cty.StringVal("upload")}, wantErr: registry.ErrInvalidConfig},
		{
			name: "download of missing object",
			config: map[string]cty.Value{
				"action":           cty.StringVal("download"),
				"download_url":     cty.StringVal(srv.URL + "/none"),
				"destination_path": cty.StringVal(filepath.Join(t.TempDir(), "x")),
			},
			wantMsg: "404",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tk, err := registry.New(&Module{Client: srv.Client()}).CreateTask("s3", "op", tc.config)
			require.NoError(t, err)

			res := tk.Execute(context.Background())

			require.False(t, res.Success)
			if tc.wantErr != nil {
				assert.ErrorIs(t, res.Err, tc.wantErr)
			}
			assert.Contains(t, res.Error(), tc.wantMsg)
		})
	}
}
