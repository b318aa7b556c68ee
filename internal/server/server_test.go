package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/dashboard"
	"github.com/rileyhilliard/campus/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSnap struct {
	rec dashboard.StatusRecord
}

func (f fixedSnap) Collect(context.Context) dashboard.StatusRecord {
	return f.rec
}

func testServer(rec dashboard.StatusRecord, docs, reqLog bool, log logger.Logger) *Server {
	return New(config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}, Options{
		Snapshotter: fixedSnap{rec: rec},
		Info: dashboard.ServerInfo{
			Host:      "localhost",
			Port:      3000,
			StartedAt: time.Now().Add(-time.Minute),
		},
		Version:    "1.2.3",
		APIDocs:    docs,
		RequestLog: reqLog,
		Logger:     log,
	})
}

func do(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(t, testServer(dashboard.StatusRecord{}, true, false, nil).Handler(), "/healthz")

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1 minute", body["uptime"])
}

func TestStatus(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		rec := dashboard.StatusRecord{
			Connected: true,
			Host:      "localhost",
			Database:  "school_admin",
			Entities: []dashboard.EntityCount{
				{Name: "Users", Count: 42},
				{Name: "Orders", Failed: true, Reason: dashboard.CountFailed},
			},
		}
		rr := do(t, testServer(rec, true, false, nil).Handler(), "/api/v1/status")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

		var got dashboard.StatusRecord
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, rec.Entities, got.Entities)
		assert.True(t, got.Connected)
	})

	t.Run("disconnected is 503 and redacted", func(t *testing.T) {
		rec := dashboard.StatusRecord{
			Error: "dial postgres://admin:hunter2@db/school",
			Cache: &dashboard.CacheStatus{Addr: "cache:6379", Error: "redis://u:pw@cache refused"},
		}
		rr := do(t, testServer(rec, true, false, nil).Handler(), "/api/v1/status")

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.NotContains(t, rr.Body.String(), "hunter2")
		assert.NotContains(t, rr.Body.String(), ":pw@")
		assert.Contains(t, rr.Body.String(), "admin:***@")
	})
}

func TestDocs(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		h := testServer(dashboard.StatusRecord{}, true, false, nil).Handler()

		rr := do(t, h, "/api-docs.json")
		require.Equal(t, http.StatusOK, rr.Code)

		var doc apiDoc
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
		assert.Equal(t, "1.2.3", doc.Info.Version)
		assert.Equal(t, "http://localhost:3000", doc.Servers[0].URL)
		assert.Contains(t, doc.Paths, "/api/v1/status")

		rr = do(t, h, "/api-docs")
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/api-docs.json", rr.Header().Get("Location"))
	})

	t.Run("disabled", func(t *testing.T) {
		rr := do(t, testServer(dashboard.StatusRecord{}, false, false, nil).Handler(), "/api-docs.json")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMetrics(t *testing.T) {
	rec := dashboard.StatusRecord{
		Connected: true,
		Entities:  []dashboard.EntityCount{{Name: "Users", Count: 42}},
	}
	h := testServer(rec, true, false, nil).Handler()

	do(t, h, "/api/v1/status")
	rr := do(t, h, "/metrics")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `campus_db_entity_records{entity="Users"} 42`)
	assert.Contains(t, body, "campus_db_up 1")
	assert.Contains(t, body, `campus_http_requests_total{method="GET",path="/api/v1/status",status="200"}`)
}

func TestRequestLog(t *testing.T) {
	log := logger.NewBufferLogger()
	h := testServer(dashboard.StatusRecord{}, true, true, log).Handler()

	do(t, h, "/healthz")

	msgs := log.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "info", msgs[0].Level)
	assert.True(t, strings.HasPrefix(msgs[0].Message, "GET /healthz 200"))
}

func TestRequestLogDisabled(t *testing.T) {
	log := logger.NewBufferLogger()
	do(t, testServer(dashboard.StatusRecord{}, true, false, log).Handler(), "/healthz")
	assert.Empty(t, log.Messages())
}

func TestStartAndShutdown(t *testing.T) {
	s := testServer(dashboard.StatusRecord{Connected: true}, true, false, nil)
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	_, open := <-s.Errors()
	assert.False(t, open, "clean shutdown closes the error channel")
}

func TestDocsAdvertiseBoundPort(t *testing.T) {
	s := testServer(dashboard.StatusRecord{}, true, false, nil)
	require.NoError(t, s.Start())
	defer s.Shutdown(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/api-docs.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	var doc apiDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	_, port, _ := strings.Cut(s.Addr(), ":")
	assert.Equal(t, "http://localhost:"+port, doc.Servers[0].URL)
}

func TestStartPortInUse(t *testing.T) {
	first := testServer(dashboard.StatusRecord{}, false, false, nil)
	require.NoError(t, first.Start())
	defer first.Shutdown(context.Background())

	_, port, _ := strings.Cut(first.Addr(), ":")
	cfg := config.ServerConfig{Host: "127.0.0.1", ShutdownTimeout: time.Second}
	cfg.Port, _ = strconv.Atoi(port)

	err := New(cfg, Options{}).Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot listen")
}
