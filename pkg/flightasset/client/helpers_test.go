package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"evalgo.org/flightasset/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// fakeAPI is a JSON:API server that records every request it receives.
type fakeAPI struct {
	*httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{mux: http.NewServeMux()}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		f.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeAPI) count(method string) int {
	n := 0
	for _, r := range f.recorded() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (f *fakeAPI) newClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:     f.URL,
		APIPrefix:   "/api/v1",
		Token:       signedToken(t, time.Now().Add(time.Hour)),
		ComponentID: "c1",
		PageSize:    2,
	}, opts...)
	require.NoError(t, err)
	return c
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func writeDocument(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", models.MediaType)
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func mustResource(t *testing.T, body string) *models.Resource {
	t.Helper()
	doc, err := models.DecodeDocument([]byte(body))
	require.NoError(t, err)
	res, err := doc.Primary()
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}
