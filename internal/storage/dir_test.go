package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirClientPutGet(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "public")
	client := NewDirClient(root)

	require.NoError(t, client.EnsureBucket(ctx))
	require.NoError(t, client.Put(ctx, "assets/app.js", strings.NewReader("console.log(1)"), 14, "text/javascript"))

	reader, err := client.Get(ctx, "/assets/app.js")
	require.NoError(t, err)
	defer reader.Close()

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(body))
}

func TestDirClientMissingObject(t *testing.T) {
	client := NewDirClient(t.TempDir())

	_, err := client.Get(context.Background(), "nope.html")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirClientDirectoryIsNotAnObject(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "assets"), 0o755))

	_, err := NewDirClient(root).Get(context.Background(), "assets")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirClientRejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("x"), 0o600))

	_, err := NewDirClient(root).Get(context.Background(), "../secret.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObjectKey(t *testing.T) {
	cases := []struct {
		prefix string
		key    string
		want   string
	}{
		{prefix: "", key: "index.html", want: "index.html"},
		{prefix: "client/", key: "/js/app.js", want: "client/js/app.js"},
		{prefix: "/client", key: "../../index.html", want: "client/index.html"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, objectKey(tc.prefix, tc.key))
	}
}

func TestCacheControl(t *testing.T) {
	assert.Equal(t, entryCacheControl, cacheControl("index.html"))
	assert.Equal(t, assetCacheControl, cacheControl("js/app.js"))
}
