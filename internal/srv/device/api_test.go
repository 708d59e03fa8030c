package device

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mbonnet/oledsrv/apimodel"
	"github.com/mbonnet/oledsrv/internal/srv/config"
	"github.com/mbonnet/oledsrv/internal/srv/controller"
	"github.com/mbonnet/oledsrv/internal/srv/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type stubTransport struct {
	err error
}

func (t *stubTransport) Commit(img image.Image) error {
	return t.err
}

type stubMetrics struct{}

func (s *stubMetrics) Snapshot(ctx context.Context) (screen.Metrics, time.Time) {
	return screen.Metrics{CPUPct: 10, MemPct: 20, DiskPct: 30}, time.Now()
}

func newTestApi(t *testing.T, transport *stubTransport) *Api {
	serverParam := &config.ServerParam{}
	require.NoError(t, yaml.Unmarshal(config.ParamDefaultFile, serverParam))

	serverConfig := &config.ServerConfig{
		ConfigDir:      t.TempDir(),
		SimulationMode: true,
		ServerParam:    serverParam,
	}
	displayController := controller.New(transport, &stubMetrics{}, time.Second)
	return NewApi(serverConfig, displayController)
}

func doRequest(api *Api, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func TestApiIsAlive(t *testing.T) {
	api := newTestApi(t, &stubTransport{})
	w := doRequest(api, "GET", "/api/is_alive", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApiSetModeAndStatus(t *testing.T) {
	api := newTestApi(t, &stubTransport{})

	w := doRequest(api, "POST", "/api/mode/clock", "")
	require.Equal(t, http.StatusOK, w.Code)

	var reply apimodel.ActionReply
	require.NoError(t, json.NewDecoder(w.Body).Decode(&reply))
	assert.Equal(t, "clock", reply.Mode)

	w = doRequest(api, "GET", "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var status apimodel.DisplayStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "clock", status.Mode)
	assert.NotEmpty(t, status.LastRenderAt)
	assert.Empty(t, status.LastCommitError)
}

func TestApiSetModeInvalidName(t *testing.T) {
	api := newTestApi(t, &stubTransport{})
	w := doRequest(api, "POST", "/api/mode/bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiSetMessage(t *testing.T) {
	api := newTestApi(t, &stubTransport{})

	w := doRequest(api, "POST", "/api/message", `{"message": "hello there"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(api, "GET", "/api/status", "")
	var status apimodel.DisplayStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "message", status.Mode)
	assert.Equal(t, "hello there", status.Message)
}

func TestApiSetMessageBlankRejected(t *testing.T) {
	api := newTestApi(t, &stubTransport{})

	w := doRequest(api, "POST", "/api/message", `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The mode must be left unchanged by the rejected command.
	w = doRequest(api, "GET", "/api/status", "")
	var status apimodel.DisplayStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "off", status.Mode)
}

func TestApiClear(t *testing.T) {
	api := newTestApi(t, &stubTransport{})

	doRequest(api, "POST", "/api/message", `{"message": "to be cleared"}`)
	w := doRequest(api, "POST", "/api/clear", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(api, "GET", "/api/status", "")
	var status apimodel.DisplayStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "off", status.Mode)
}

func TestApiTestReportsTransportFailure(t *testing.T) {
	api := newTestApi(t, &stubTransport{err: errors.New("panel unplugged")})

	w := doRequest(api, "GET", "/api/test", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(api, "GET", "/api/status", "")
	var status apimodel.DisplayStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Contains(t, status.LastCommitError, "panel unplugged")
}

func TestApiHomePage(t *testing.T) {
	api := newTestApi(t, &stubTransport{})
	w := doRequest(api, "GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OLED Display Controller")
}
