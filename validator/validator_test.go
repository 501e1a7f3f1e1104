package validator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/parser"
	"github.com/erraggy/restspec/specerrors"
)

func newValidator(t *testing.T, opts ...Option) *Validator {
	t.Helper()
	v, err := New(opts...)
	require.NoError(t, err)
	return v
}

func validate(t *testing.T, spec *parser.Specification, h http.Handler) *ValidationResult {
	t.Helper()
	result, err := newValidator(t).Validate(context.Background(), spec, h)
	require.NoError(t, err)
	return result
}

func TestValidate_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		spec    *parser.Specification
		handler http.HandlerFunc
		want    []string
	}{
		{
			name: "text body matches",
			spec: func() *parser.Specification {
				s := testutil.NewSpec("GET", "/greeting")
				s.Response.Body = testutil.Body("Hello World")
				return s
			}(),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "Hello World")
			},
		},
		{
			name: "json body normalized",
			spec: testutil.NewJSONSpec("GET", "/person", `{ "age": 18 }`),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("{\"age\":18}\n"))
			},
		},
		{
			name: "json array normalized",
			spec: testutil.NewJSONSpec("GET", "/people", `[ { "age": 18 }, { "age": 19 } ]`),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[{"age":18},{"age":19}]`))
			},
		},
		{
			name: "json body differs",
			spec: testutil.NewJSONSpec("GET", "/person", `{ "age": 18 }`),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"age":19}`))
			},
			want: []string{"Expected body '{\n   \"age\": 18\n}' but was '{\n   \"age\": 19\n}'"},
		},
		{
			name: "invalid actual json",
			spec: testutil.NewJSONSpec("GET", "/person", `{ "a": 1 }`),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("{\n   \"a"))
			},
			want: []string{"actual  : Failed to normalize JSON: '{\n   \"a'"},
		},
		{
			name: "expected and actual both invalid json",
			spec: testutil.NewJSONSpec("GET", "/person", "{ blah "),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
			},
			want: []string{
				"expected: Failed to normalize JSON: '{ blah '",
				"actual  : Failed to normalize JSON: ''",
			},
		},
		{
			name: "missing header",
			spec: func() *parser.Specification {
				s := testutil.NewSpec("GET", "/snacks")
				s.Response.Headers = parser.Headers{{Name: "jalapeno", Value: "poppers"}}
				return s
			}(),
			handler: func(w http.ResponseWriter, _ *http.Request) {},
			want:    []string{"Expected header 'jalapeno' set to 'poppers', but was 'null'"},
		},
		{
			name: "header value differs",
			spec: func() *parser.Specification {
				s := testutil.NewSpec("GET", "/jedi")
				s.Response.Headers = parser.Headers{{Name: "luke", Value: "landWalker"}}
				return s
			}(),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("luke", "skywalker")
			},
			want: []string{"Expected header 'luke' set to 'landWalker', but was 'skywalker'"},
		},
		{
			name: "all checks fail in order",
			spec: func() *parser.Specification {
				s := testutil.NewSpec("GET", "/all")
				s.Response.StatusCode = 201
				s.Response.Headers = parser.Headers{
					{Name: "B", Value: "2"},
					{Name: "A", Value: "1"},
				}
				s.Response.Body = testutil.Body("expected")
				return s
			}(),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = io.WriteString(w, "actual")
			},
			want: []string{
				"Status code should have been 201 but was 200",
				"Expected header 'B' set to '2', but was 'null'",
				"Expected header 'A' set to '1', but was 'null'",
				"Expected body 'expected' but was 'actual'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validate(t, tt.spec, tt.handler)
			if len(tt.want) == 0 {
				assert.True(t, result.Valid(), "unexpected violations:\n%s", result)
				result.AssertNoViolations(t)
				return
			}
			assert.Equal(t, tt.want, result.Descriptions())
			assert.False(t, result.Valid())
		})
	}
}

func TestValidate_UndeclaredJSONBodies(t *testing.T) {
	spec := testutil.NewSpec("GET", "/person")
	spec.Response.Body = testutil.Body(`{ "age": 18 }`)

	t.Run("equivalent", func(t *testing.T) {
		result := validate(t, spec, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"age":18}`)
		}))
		assert.True(t, result.Captured.ContentTypeSniffed)
		assert.Empty(t, result.Descriptions())
	})

	t.Run("different", func(t *testing.T) {
		result := validate(t, spec, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"age":19}`))
		}))
		assert.Equal(t, []string{"Expected body '{\n   \"age\": 18\n}' but was '{\n   \"age\": 19\n}'"}, result.Descriptions())
	})

	t.Run("text handler output", func(t *testing.T) {
		result := validate(t, spec, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "age=18")
		}))
		assert.Equal(t, []string{"Expected body '{ \"age\": 18 }' but was 'age=18'"}, result.Descriptions())
	})
}

func TestValidate_EmptyHandlerIs405(t *testing.T) {
	spec := testutil.NewSpec("GET", "/redirect")
	spec.Response.StatusCode = http.StatusFound

	result := validate(t, spec, MethodHandler{})
	assert.Equal(t, []string{"Status code should have been 302 but was 405"}, result.Descriptions())
	assert.Equal(t, http.StatusMethodNotAllowed, result.Captured.StatusCode)
}

func TestValidate_RequestReachesHandler(t *testing.T) {
	spec := testutil.NewDetailedSpec()

	var (
		gotURI, gotPath, gotQuery, gotBody, gotMethod string
		gotNotify                                     []string
		gotHeaders                                    http.Header
		gotLength                                     int64
	)
	h := MethodHandler{
		"POST": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotURI = r.RequestURI
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			gotMethod = r.Method
			gotNotify = r.URL.Query()["notify"]
			gotHeaders = r.Header.Clone()
			gotLength = r.ContentLength
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Location", "/users/7")
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":7,"name":"luke"}`)
		}),
	}

	result := validate(t, spec, h)
	result.AssertNoViolations(t)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/users?notify=email&notify=sms", gotURI)
	assert.Equal(t, "/users", gotPath)
	assert.Equal(t, "notify=email&notify=sms", gotQuery)
	assert.Equal(t, []string{"email", "sms"}, gotNotify)
	assert.Equal(t, `{"name": "luke"}`, gotBody)
	assert.Equal(t, int64(len(gotBody)), gotLength)
	assert.Equal(t, "req-1", gotHeaders.Get("X-Request-Id"))
	assert.Equal(t, 201, result.Captured.StatusCode)
	assert.Equal(t, "/users/7", result.Captured.Headers["Location"])
}

func TestValidate_SpecificationErrors(t *testing.T) {
	called := false
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	tests := []struct {
		name  string
		spec  *parser.Specification
		field string
	}{
		{name: "nil spec", spec: nil},
		{name: "missing url", spec: testutil.NewSpec("GET", ""), field: "url"},
		{name: "missing method", spec: testutil.NewSpec("", "/x"), field: "request.method"},
		{name: "relative url", spec: testutil.NewSpec("GET", "users"), field: "url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newValidator(t).Validate(context.Background(), tt.spec, h)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, specerrors.ErrSpecification))

			var se *specerrors.SpecificationError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.field, se.Field)
		})
	}
	assert.False(t, called, "handler must not run for an unusable specification")

	_, err := newValidator(t).Validate(context.Background(), testutil.NewSpec("GET", "/"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, specerrors.ErrConfig))
}

func TestValidate_SkipOptions(t *testing.T) {
	spec := testutil.NewJSONSpec("GET", "/", `{"a": 1}`)
	spec.Response.StatusCode = 204
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "nope")
	})

	all, err := newValidator(t).Validate(context.Background(), spec, h)
	require.NoError(t, err)
	assert.Len(t, all.Violations, 3)

	v := newValidator(t,
		WithSkipStatusValidation(true),
		WithSkipHeaderValidation(true),
		WithSkipBodyValidation(true),
	)
	none, err := v.Validate(context.Background(), spec, h)
	require.NoError(t, err)
	assert.True(t, none.Valid())
}

func TestValidate_ContextReachesHandler(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	var got any
	h := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.Context().Value(key{})
	})
	_, err := newValidator(t).Validate(ctx, testutil.NewSpec("GET", "/"), h)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestValidateSuite(t *testing.T) {
	archive := []byte(`Greeting service.
-- hello.json --
{"url": "/hello", "request": {"method": "GET"}, "response": {"body": "hello"}}
-- wrong.yaml --
url: /hello
request: {method: GET}
response: {statusCode: 201}
-- unusable.json --
{"url": "relative", "request": {"method": "GET"}}
`)
	suite, err := parser.New().ParseArchive(archive, "greeting.txtar")
	require.NoError(t, err)

	h := MethodHandler{"GET": http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})}

	result, err := newValidator(t).ValidateSuite(context.Background(), suite, h)
	require.NoError(t, err)
	assert.Equal(t, "greeting.txtar", result.Name)
	require.Len(t, result.Results, 2)
	assert.Equal(t, 1, result.Passed())
	assert.Equal(t, 1, result.Failed())
	require.Len(t, result.Errors, 1)
	assert.True(t, errors.Is(result.Errors[0], specerrors.ErrSpecification))
	assert.False(t, result.Valid())

	err = result.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong: Status code should have been 201 but was 200")
	assert.True(t, errors.Is(err, ErrViolations))
}

func TestValidateSuite_Cancelled(t *testing.T) {
	suite := &parser.Suite{Name: "s", Results: []*parser.ParseResult{
		{Spec: testutil.NewSpec("GET", "/a")},
		{Spec: testutil.NewSpec("GET", "/b")},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls++
		cancel()
	})

	result, err := newValidator(t).ValidateSuite(ctx, suite, h)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Len(t, result.Results, 1)

	_, err = newValidator(t).ValidateSuite(context.Background(), nil, h)
	assert.True(t, errors.Is(err, specerrors.ErrConfig))
}
