package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/parser"
)

func TestNewSpec(t *testing.T) {
	spec := NewSpec("GET", "/ping")
	require.NoError(t, spec.Validate())
	assert.Equal(t, "GET /ping", spec.Name)
	assert.Equal(t, 200, spec.Response.StatusCode)
	assert.Nil(t, spec.Response.Body, "body should be unchecked")
	assert.Nil(t, spec.Response.Headers, "headers should be unchecked")
}

func TestNewJSONSpec(t *testing.T) {
	spec := NewJSONSpec("GET", "/users/7", `{"id": 7}`)
	v, ok := spec.Response.Headers.Get("content-type")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)
	require.NotNil(t, spec.Response.Body)
	assert.Equal(t, `{"id": 7}`, *spec.Response.Body)
}

func TestWriteTempFiles(t *testing.T) {
	spec := NewDetailedSpec()

	for _, path := range []string{WriteTempYAML(t, spec), WriteTempJSON(t, spec)} {
		assert.FileExists(t, path)
		assert.True(t, filepath.IsAbs(path), "Path should be absolute")

		result, err := parser.New().Parse(path)
		require.NoError(t, err)
		assert.Equal(t, spec, result.Spec, "round trip through %s", filepath.Ext(path))
	}
}

func TestWriteTempArchive(t *testing.T) {
	path := WriteTempArchive(t, "two specs", NewSpec("GET", "/a"), NewDetailedSpec())
	assert.Equal(t, ".txtar", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	suite, err := parser.New().ParseArchive(data, path)
	require.NoError(t, err)
	assert.Equal(t, 2, suite.Len())
	assert.Equal(t, "two specs", suite.Description)
}
