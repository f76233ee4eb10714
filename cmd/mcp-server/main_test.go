package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/njchilds90/symcalc"
	"github.com/njchilds90/symcalc/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	srv := httptest.NewServer(newMux(logger.NewConsoleLogger(buf, "info")))
	t.Cleanup(srv.Close)
	return srv, buf
}

func TestToolEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"tool": "solve", "params": {"expr": "x^2 = 9"}}`
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out symcalc.ToolResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Empty(t, out.Error)
	assert.Equal(t, "{-3, 3}", out.String)
	assert.Equal(t, `\left\{-3, 3\right\}`, out.LaTeX)
}

func TestToolEndpointReportsToolErrors(t *testing.T) {
	srv, logs := newTestServer(t)

	body := `{"tool": "simplify", "params": {"expr": "2 +"}}`
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out symcalc.ToolResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Error, "error parsing expression")
	assert.Contains(t, logs.String(), "[WARN] tool simplify failed")
}

func TestToolEndpointRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"tool":`},
		{name: "unknown field", body: `{"tool": "simplify", "extra": 1}`},
		{name: "trailing data", body: `{"tool": "simplify"} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	resp, err := http.Get(srv.URL + "/tool")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSchemaAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	var spec map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&spec))
	assert.Contains(t, spec, "tools")

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	var status map[string]interface{}
	require.NoError(t, json.NewDecoder(health.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])
}
