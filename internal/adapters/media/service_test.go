package media

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPaths = []string{
	"media/unknown/_phpunit_tmp.json",
	"media/unknown/5a/ef/21/_phpunit_tmp.json",
}

func testData(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"key":    "myKey",
		"name":   "name",
		"people": []string{"great guy", "greater guy", "grumpy guy"},
	})
	require.NoError(t, err)
	return data
}

func TestService_FileLifecycle(t *testing.T) {
	ctx := context.Background()
	data := testData(t)

	for _, p := range testPaths {
		t.Run(p, func(t *testing.T) {
			s := NewMemoryService("http://shop.test/")

			require.NoError(t, s.Write(ctx, p, data))
			assert.True(t, s.Has(ctx, p))

			size, err := s.GetSize(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), size)

			read, err := s.Read(ctx, p)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(read))

			tmp := "media/unknown/_phpunit_tmp_rename.json"
			require.NoError(t, s.Rename(ctx, p, tmp))
			assert.True(t, s.Has(ctx, tmp))
			assert.False(t, s.Has(ctx, p))
			require.NoError(t, s.Rename(ctx, tmp, p))
			assert.True(t, s.Has(ctx, p))
			assert.False(t, s.Has(ctx, tmp))

			require.NoError(t, s.Delete(ctx, p))
			assert.False(t, s.Has(ctx, p))
		})
	}
}

func TestService_URLGeneration(t *testing.T) {
	s := NewMemoryService("http://shop.test")

	url, ok := s.GetURL(testPaths[0])
	assert.True(t, ok)
	assert.Equal(t, "http://shop.test/"+s.Encode(testPaths[0]), url)

	url, ok = s.GetURL("")
	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestService_EncodeNormalize(t *testing.T) {
	s := NewMemoryService("")

	encoded := s.Encode("media/image/foo.jpg")
	assert.True(t, strings.HasPrefix(encoded, "media/image/"))
	assert.True(t, strings.HasSuffix(encoded, "/foo.jpg"))
	assert.Len(t, strings.Split(encoded, "/"), 6)
	assert.NotContains(t, encoded, "/ad/")

	assert.Equal(t, "media/image/foo.jpg", s.Normalize(encoded))
	assert.Equal(t, "media/image/foo.jpg", s.Normalize("http://shop.test/"+encoded))
	assert.Equal(t, encoded, s.Encode(encoded))

	assert.Equal(t, "robots.txt", s.Encode("/robots.txt"))
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryService("")

	_, err := s.Read(ctx, "media/image/missing.jpg")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = s.GetSize(ctx, "media/image/missing.jpg")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	assert.ErrorIs(t, s.Write(ctx, "", []byte("x")), utils.ErrInvalidMediaPath)
	assert.ErrorIs(t, s.Write(ctx, "media/../etc/passwd", []byte("x")), utils.ErrInvalidMediaPath)
}

func TestService_ListFiles(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryService("")

	require.NoError(t, s.Write(ctx, "media/image/b.jpg", []byte("b")))
	require.NoError(t, s.Write(ctx, "media/image/a.jpg", []byte("a")))

	files, err := s.ListFiles(ctx, "media/image")
	require.NoError(t, err)
	assert.Equal(t, []string{"media/image/a.jpg", "media/image/b.jpg"}, files)
}
