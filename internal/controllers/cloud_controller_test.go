package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"questlog/internal/cloud"
	"questlog/internal/persistence"
	"questlog/internal/providers"
	"questlog/internal/services"
	"questlog/internal/structures"
	"questlog/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cloudDoc = `{"version":1,"library":[],"currentGameId":null,"lastSavedAt":"2026-01-01T00:00:00Z"}`

func newCloudController(t *testing.T, conf *structures.Config) (*CloudController, *cloud.BadgerBackend) {
	t.Helper()
	logger := &testutil.MockLogger{}
	backend, err := cloud.NewBadgerBackend(structures.BadgerConfig{InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	compressor, err := persistence.NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)

	svc := services.NewCloudService(conf, backend, compressor, testutil.NewMockCache(), providers.NewRateLimiter(conf), &testutil.MockMetrics{}, logger)
	return NewCloudController(conf, logger, svc), backend
}

func putState(cc *CloudController, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/state?id="+id, strings.NewReader(body))
	rr := httptest.NewRecorder()
	cc.PutState(rr, req)
	return rr
}

func getState(cc *CloudController, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/state?id="+id, nil)
	rr := httptest.NewRecorder()
	cc.GetState(rr, req)
	return rr
}

func TestCloudState_RoundTrip(t *testing.T) {
	cc, _ := newCloudController(t, &structures.Config{})

	assert.Equal(t, http.StatusNotFound, getState(cc, "dev-1").Code)

	rr := putState(cc, "dev-1", cloudDoc)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = getState(cc, "dev-1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, cloudDoc, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, getState(cc, "dev-2").Code)
}

func TestCloudState_Rejections(t *testing.T) {
	conf := &structures.Config{Cloud: structures.CloudConfig{
		MaxDocumentBytes: 200,
		RateLimit:        structures.RateLimitConfig{PerSecond: 0.001, Burst: 1},
	}}
	cc, _ := newCloudController(t, conf)

	assert.Equal(t, http.StatusBadRequest, putState(cc, "", cloudDoc).Code)
	assert.Equal(t, http.StatusBadRequest, getState(cc, "bad%2Fid").Code)
	assert.Equal(t, http.StatusBadRequest, putState(cc, "dev-2", "{broken").Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, putState(cc, "dev-1", strings.Repeat(" ", 300)+cloudDoc).Code)

	cc.maxBody = 16
	assert.Equal(t, http.StatusRequestEntityTooLarge, putState(cc, "dev-1", cloudDoc).Code)
	cc.maxBody = 200

	assert.Equal(t, http.StatusNoContent, putState(cc, "dev-1", cloudDoc).Code)
	assert.Equal(t, http.StatusTooManyRequests, putState(cc, "dev-1", cloudDoc).Code)
}

// largeDocument returns a valid document of at least size bytes.
func largeDocument(size int) string {
	var b strings.Builder
	b.WriteString(`{"version":1,"currentGameId":null,"lastSavedAt":"2026-01-01T00:00:00Z","library":[`)
	for i := 0; b.Len() < size; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":"g%d","name":"Game %d","status":"backlog","addedAt":"2026-01-01T00:00:00Z","saves":[]}`, i, i)
	}
	b.WriteString("]}")
	return b.String()
}

func TestCloudState_AcceptsDocumentsUpToConfiguredLimit(t *testing.T) {
	conf := &structures.Config{Cloud: structures.CloudConfig{MaxDocumentBytes: 4 << 20}}
	cc, _ := newCloudController(t, conf)

	doc := largeDocument(2 << 20)
	require.Greater(t, len(doc), maxRequestBodySize)

	rr := putState(cc, "dev-1", doc)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = getState(cc, "dev-1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, len(doc), rr.Body.Len())

	rr = putState(cc, "dev-1", largeDocument(5<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestCloudState_BackendFailure(t *testing.T) {
	cc, backend := newCloudController(t, &structures.Config{})
	require.NoError(t, backend.Close())

	assert.Equal(t, http.StatusInternalServerError, putState(cc, "dev-1", cloudDoc).Code)
	assert.Equal(t, http.StatusInternalServerError, getState(cc, "dev-1").Code)
}
