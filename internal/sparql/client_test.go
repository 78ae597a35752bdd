package sparql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResults = `{
  "head": {"vars": ["landmarkLabel", "coord"]},
  "results": {"bindings": [
    {
      "landmarkLabel": {"type": "literal", "value": "Eiffel Tower", "xml:lang": "en"},
      "coord": {"type": "literal", "value": "Point(2.2945 48.8583)", "datatype": "http://www.opengis.net/ont/geosparql#wktLiteral"}
    },
    {
      "landmarkLabel": {"type": "literal", "value": "Colosseum", "xml:lang": "en"}
    }
  ]}
}`

func TestQuery_Success(t *testing.T) {
	var gotQuery, gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotQuery = r.URL.Query().Get("query")
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", ResultsMediaType)
		_, _ = w.Write([]byte(sampleResults))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "mapdata-test/1.0", 5*time.Second)
	res, err := client.Query(context.Background(), "SELECT ?x WHERE { ?x ?y ?z }")
	require.NoError(t, err)

	assert.Equal(t, "SELECT ?x WHERE { ?x ?y ?z }", gotQuery)
	assert.Equal(t, ResultsMediaType, gotAccept)
	assert.Equal(t, "mapdata-test/1.0", gotUA)

	assert.Equal(t, []string{"landmarkLabel", "coord"}, res.Head.Vars)
	bindings := res.Bindings()
	require.Len(t, bindings, 2)

	name, ok := bindings[0].Value("landmarkLabel")
	assert.True(t, ok)
	assert.Equal(t, "Eiffel Tower", name)
	assert.Equal(t, "en", bindings[0]["landmarkLabel"].Lang)
	assert.Equal(t, "http://www.opengis.net/ont/geosparql#wktLiteral", bindings[0]["coord"].Datatype)

	_, ok = bindings[1].Value("coord")
	assert.False(t, ok)
}

func TestQuery_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", 0).Query(context.Background(), "ASK {}")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Equal(t, "rate limited", statusErr.Body)
	assert.Contains(t, err.Error(), "429")
}

func TestQuery_ParseErrorPreview(t *testing.T) {
	body := "<html>" + strings.Repeat("x", 1000) + "</html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", 0).Query(context.Background(), "SELECT * {}")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Len(t, parseErr.Preview, 500)
	assert.Equal(t, body[:500], parseErr.Preview)
	assert.NotNil(t, errors.Unwrap(parseErr))
}

func TestQuery_ShortBodyPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("oops"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", 0).Query(context.Background(), "SELECT * {}")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "oops", parseErr.Preview)
}

func TestQuery_MissingBindings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "error document", body: `{"error":"quota"}`},
		{name: "no bindings", body: `{"head":{"vars":["x"]},"results":{}}`},
		{name: "null bindings", body: `{"head":{"vars":["x"]},"results":{"bindings":null}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, err := NewClient(srv.URL, "", 0).Query(context.Background(), "SELECT * {}")
			require.Error(t, err)
			assert.Nil(t, res)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.body, parseErr.Preview)
			assert.Contains(t, err.Error(), "results.bindings")
		})
	}
}

func TestQuery_EmptyBindings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"head":{"vars":["x"]},"results":{"bindings":[]}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "", 0).Query(context.Background(), "SELECT * {}")
	require.NoError(t, err)
	assert.Empty(t, res.Bindings())
}

func TestBinding_ValueWithoutLexicalForm(t *testing.T) {
	var b Binding
	require.NoError(t, json.Unmarshal([]byte(`{"landmarkLabel":{"type":"literal"},"coord":{"type":"literal","value":""}}`), &b))

	_, ok := b.Value("landmarkLabel")
	assert.False(t, ok)

	v, ok := b.Value("coord")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestQuery_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, "", 0).Query(ctx, "SELECT * {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestResults_BindingsNil(t *testing.T) {
	var r *Results
	assert.Nil(t, r.Bindings())
}
