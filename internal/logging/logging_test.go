package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, logrus.DebugLevel, New("debug", &buf).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("loud", &buf).GetLevel())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)

	h := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/9", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/api/v1/products/9", line["path"])
	assert.Equal(t, float64(404), line["status"])
	assert.Equal(t, "warning", line["level"])
	assert.NotEmpty(t, line["request_id"])
}
