package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/internal/testutil"
)

const greetingDoc = `name: greeting
url: /greeting?name=leia
request:
  method: GET
response:
  statusCode: 200
  headers:
    Content-Type: application/json
  body:
    message: hello leia
`

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.clear()
	input := specInput{File: testutil.WriteTempJSON(t, testutil.NewDetailedSpec())}
	result, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, "create-user", result.Spec.Name)
	assert.Equal(t, 201, result.Spec.Response.StatusCode)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.clear()
	result, err := specInput{Content: greetingDoc}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "greeting", result.Spec.Name)
	require.NotNil(t, result.Spec.Response.Body)
	assert.Equal(t, `{"message":"hello leia"}`, *result.Spec.Response.Body)
}

func TestSpecInput_ResolveContentDefaultName(t *testing.T) {
	specCache.clear()
	result, err := specInput{Content: `{"url": "/", "request": {"method": "GET"}}`}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "content", result.Spec.Name)
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	_, err := specInput{}.resolve()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	_, err := specInput{File: "foo.yaml", Content: "bar"}.resolve()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.clear()
	_, err := specInput{File: "/nonexistent/path.yaml"}.resolve()
	assert.Error(t, err)
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 8
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	_, err := specInput{Content: greetingDoc}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESTSPEC_MAX_INLINE_SIZE")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.clear()
	input := specInput{File: testutil.WriteTempYAML(t, testutil.NewSpec("GET", "/ping"))}

	// First call populates cache.
	result1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	// Second call should return the same pointer (cache hit).
	result2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.clear()

	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: /v1\nrequest:\n  method: GET\n"), 0644))

	input := specInput{File: path}
	result1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, "/v1", result1.Spec.URL)

	require.NoError(t, os.WriteFile(path, []byte("url: /v2\nrequest:\n  method: GET\n"), 0644))

	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Equal(t, "/v2", result2.Spec.URL)
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.clear()
	input := specInput{Content: greetingDoc}

	result1, err := input.resolve()
	require.NoError(t, err)

	// Same content should hit cache.
	result2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.clear()

	// Insert one more document than the cache holds and check that the
	// first one is evicted.
	var firstKey string
	for i := range specCache.capacity + 1 {
		content := fmt.Sprintf("url: /items/%d\nrequest:\n  method: GET\n", i)
		if i == 0 {
			firstKey, _ = specInput{Content: content}.cacheKey()
		}
		_, err := specInput{Content: content}.resolve()
		require.NoError(t, err)
	}

	assert.Equal(t, specCache.capacity, specCache.size())
	assert.Nil(t, specCache.lookup(firstKey), "expected oldest entry to be evicted")
}

func TestSuiteInput_Resolve(t *testing.T) {
	archive := testutil.WriteTempArchive(t, "users", testutil.NewSpec("GET", "/users"), testutil.NewDetailedSpec())
	data, err := os.ReadFile(archive)
	require.NoError(t, err)

	t.Run("path", func(t *testing.T) {
		suite, err := suiteInput{Path: archive}.resolve()
		require.NoError(t, err)
		assert.Equal(t, 2, suite.Len())
	})

	t.Run("content", func(t *testing.T) {
		suite, err := suiteInput{Content: string(data)}.resolve()
		require.NoError(t, err)
		assert.Equal(t, 2, suite.Len())
		assert.Equal(t, "users", suite.Description)
	})

	t.Run("none", func(t *testing.T) {
		_, err := suiteInput{}.resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of path, url, or content must be provided")
	})
}
