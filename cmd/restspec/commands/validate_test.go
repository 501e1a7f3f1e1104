package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/parser"
)

// usersServer serves GET /users/7 and POST /users as described by
// testutil.NewDetailedSpec.
func usersServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"id":7,"name":"luke"}`)
	})
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Location", "/users/7")
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprint(w, `{"id": 7, "name": "luke"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func getUserSpec() *parser.Specification {
	spec := testutil.NewJSONSpec("GET", "/users/7", `{"id": 7, "name": "luke"}`)
	spec.Name = "get-user"
	return spec
}

func brokenUserSpec() *parser.Specification {
	spec := testutil.NewJSONSpec("GET", "/users/7", `{"id": 7, "name": "leia"}`)
	spec.Name = "get-user-wrong"
	return spec
}

func TestSetupValidateFlags(t *testing.T) {
	fs, flags := SetupValidateFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Empty(t, flags.Target)
		assert.Equal(t, FormatText, flags.Format)
		assert.False(t, flags.Quiet)
		assert.False(t, flags.Curl)
		assert.Equal(t, 30*time.Second, flags.Timeout)
		assert.False(t, flags.SkipStatus)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"-t", "http://localhost:8080", "-q", "--curl", "--run", "^users", "--skip", "slow", "--skip-body", "--timeout", "5s", "specs/"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "http://localhost:8080", flags.Target)
		assert.True(t, flags.Quiet)
		assert.True(t, flags.Curl)
		assert.Len(t, flags.Filters.MustMatch, 1)
		assert.Len(t, flags.Filters.MustNotMatch, 1)
		assert.True(t, flags.SkipBody)
		assert.Equal(t, 5*time.Second, flags.Timeout)
		assert.Equal(t, "specs/", fs.Arg(0))
	})

	t.Run("invalid run pattern", func(t *testing.T) {
		fs2, _ := SetupValidateFlags()
		fs2.SetOutput(nopWriter{})
		assert.Error(t, fs2.Parse([]string{"--run", "(", "specs/"}))
	})
}

func TestHandleValidate_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{}},
		{name: "invalid format", args: []string{"-t", "http://localhost", "--format", "invalid", "test.json"}},
		{name: "missing target", args: []string{"test.json"}},
		{name: "bad target", args: []string{"-t", "localhost:8080", "test.json"}},
		{name: "missing file", args: []string{"-t", "http://localhost", "does-not-exist.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleValidate(tt.args)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrFailed)
		})
	}
}

func TestHandleValidate_Help(t *testing.T) {
	assert.NoError(t, HandleValidate([]string{"--help"}))
}

func TestHandleValidate_Passes(t *testing.T) {
	srv := usersServer(t)
	path := testutil.WriteTempArchive(t, "users", getUserSpec(), testutil.NewDetailedSpec())

	var err error
	out := captureStdout(t, func() {
		err = HandleValidate([]string{"-t", srv.URL, "-q", path})
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "get-user", "quiet mode hides passing specifications")
	assert.Contains(t, out, "✓ Validation passed: 2 passed, 0 failed")
}

func TestHandleValidate_Fails(t *testing.T) {
	srv := usersServer(t)
	path := testutil.WriteTempArchive(t, "users", getUserSpec(), brokenUserSpec())

	var err error
	out := captureStdout(t, func() {
		err = HandleValidate([]string{"-t", srv.URL, "-q", "--curl", path})
	})
	require.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "✗ get-user-wrong\n")
	assert.Contains(t, out, "    Expected body '{\n       \"id\": 7,\n       \"name\": \"leia\"\n    }' but was '{\n       \"id\": 7,\n       \"name\": \"luke\"\n    }'\n")
	assert.Contains(t, out, "    reproduce: curl -i -X GET "+srv.URL+"/users/7\n")
	assert.Contains(t, out, "✗ Validation failed: 1 passed, 1 failed")
}

func TestHandleValidate_RunFilter(t *testing.T) {
	srv := usersServer(t)
	path := testutil.WriteTempArchive(t, "users", getUserSpec(), brokenUserSpec())

	var err error
	out := captureStdout(t, func() {
		err = HandleValidate([]string{"-t", srv.URL, "-q", "--skip", "wrong$", path})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed")
}

func TestHandleValidate_JSON(t *testing.T) {
	srv := usersServer(t)
	broken := testutil.NewSpec("GET", "")
	broken.Name = "no-url"
	path := testutil.WriteTempArchive(t, "", getUserSpec(), brokenUserSpec(), broken)

	var err error
	out := captureStdout(t, func() {
		err = HandleValidate([]string{"-t", srv.URL, "--format", "json", path})
	})
	require.ErrorIs(t, err, ErrFailed)

	var report validateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, srv.URL, report.Target)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "url")
	require.Len(t, report.Results, 2)
	assert.Equal(t, "get-user-wrong", report.Results[1].Name)
	assert.Equal(t, 200, report.Results[1].StatusCode)
	require.Len(t, report.Results[1].Violations, 1)
	assert.Empty(t, report.Results[1].Curl)
}

func TestHandleValidate_Stdin(t *testing.T) {
	srv := usersServer(t)
	data, err := parser.EncodeJSON(testutil.NewDetailedSpec())
	require.NoError(t, err)
	withStdin(t, string(data))

	out := captureStdout(t, func() {
		err = HandleValidate([]string{"-t", srv.URL, "-q", StdinFilePath})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed")
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "a\n  b\n  c", indent("a\nb\nc", "  "))
	assert.Equal(t, "single", indent("single", "  "))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
