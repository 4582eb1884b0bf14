package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"tsconv/internal/config"
	"tsconv/internal/convert"
)

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	conv := convert.New(convert.Options{
		Clock:   convert.FixedClock(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)),
		RFC2822: true,
	})
	srv := httptest.NewServer(NewServer(cfg, conv).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, auth ...string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func Test_Health_ReturnsOK(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	status, body := get(t, srv, "/health")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)
}

func Test_Convert_WithDateString_ReturnsEpochCandidates(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	status, body := get(t, srv, "/api/convert?q="+url.QueryEscape("2021-01-01T00:00:00Z"))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "iso8601", gjson.Get(body, "format").String())
	assert.Equal(t, "calendar", gjson.Get(body, "precision").String())
	assert.Equal(t, "seconds", gjson.Get(body, "candidates.0.kind").String())
	assert.Equal(t, "1609459200", gjson.Get(body, "candidates.0.value").String())
	assert.Equal(t, "1609459200000", gjson.Get(body, `candidates.#(kind=="milliseconds").value`).String())
	assert.Equal(t, "1609459200000000000", gjson.Get(body, `candidates.#(kind=="nanoseconds").value`).String())
}

func Test_Convert_WithTimestamp_ReturnsDateCandidates(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	status, body := get(t, srv, "/api/convert?q=1609459200")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "epoch", gjson.Get(body, "format").String())
	assert.Equal(t, "seconds", gjson.Get(body, "precision").String())
	assert.Equal(t, "2021-01-01T00:00:00Z", gjson.Get(body, "time").String())
	assert.Equal(t, "2021-01-01T00:00:00Z", gjson.Get(body, `candidates.#(kind=="iso8601").value`).String())
	assert.Equal(t, "Fri, 01 Jan 2021 00:00:00 +0000", gjson.Get(body, `candidates.#(kind=="rfc2822").value`).String())
}

func Test_Convert_WithUnparseableInput_Returns422(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	status, body := get(t, srv, "/api/convert?q=not-a-date")

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, `could not parse "not-a-date" to a date`, gjson.Get(body, "error").String())
}

func Test_Convert_WithoutQuery_Returns400(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	status, body := get(t, srv, "/api/convert")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, gjson.Get(body, "error").Exists())
}

func Test_Convert_WithPost_Returns405(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	resp, err := srv.Client().Post(srv.URL+"/api/convert?q=0", "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodGet, resp.Header.Get("Allow"))
}

func Test_BasicAuth_ProtectsAPIButNotHealth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	srv := newTestServer(t, cfg)

	status, _ := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(t, srv, "/api/convert?q=0")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = get(t, srv, "/api/convert?q=0", "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := get(t, srv, "/api/convert?q=0", "admin", "secret")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1970-01-01T00:00:00Z", gjson.Get(body, "candidates.0.value").String())
}

func Test_BasicAuth_WithWrongUsername_Returns401(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	srv := newTestServer(t, cfg)

	status, body := get(t, srv, "/api/convert?q=0", "root", "secret")

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", gjson.Get(body, "error").String())
}

func Test_BasicAuth_WithIncompleteCredentials_IsDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin"}
	srv := newTestServer(t, cfg)

	status, _ := get(t, srv, "/api/convert?q=0")

	assert.Equal(t, http.StatusOK, status)
}
