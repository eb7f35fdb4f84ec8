package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	C "dealsync/config"
	M "dealsync/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubSyncer struct {
	lastEvents []M.WebhookEvent
	batchCalls int
	syncCalls  []string
	result     M.SyncResult
}

func (s *stubSyncer) SyncDeal(dealID string) M.SyncResult {
	s.syncCalls = append(s.syncCalls, dealID)
	if s.result.Action != "" {
		return s.result
	}
	return M.SyncResult{Success: true, Action: M.SyncActionCreated, DealID: dealID}
}

func (s *stubSyncer) ProcessBatch(events []M.WebhookEvent) []M.SyncResult {
	s.batchCalls++
	s.lastEvents = events
	results := make([]M.SyncResult, 0, len(events))
	for i := range events {
		results = append(results, s.SyncDeal(events[i].DealID()))
	}
	return results
}

func initTestConf(t *testing.T, webhookSecret string) {
	t.Helper()
	err := C.InitConf(&C.Configuration{
		AppName:       "dealsync_test",
		Env:           "test",
		WebhookSecret: webhookSecret,
		Sync:          C.DefaultSyncConfig(),
	})
	assert.Nil(t, err)
}

func newTestRouter(ds DealSyncer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/hubspot", HubspotWebhookHandler(ds))
	r.POST("/sync/deal/:deal_id", SyncDealHandler(ds))
	r.GET("/health", HealthHandler)
	return r
}

func signRequest(secret, method, url string, body []byte, timestampMillis string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(method))
	mac.Write([]byte(url))
	mac.Write(body)
	mac.Write([]byte(timestampMillis))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestHubspotWebhookHandlerSingleEvent(t *testing.T) {
	initTestConf(t, "")
	syncer := &stubSyncer{}
	r := newTestRouter(syncer)

	body := `{"objectId": 12345, "propertyName": "dealstage", "attemptNumber": 1}`
	req := httptest.NewRequest(http.MethodPost, "http://example.com/webhooks/hubspot",
		bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, syncer.batchCalls)
	assert.Len(t, syncer.lastEvents, 1)
	assert.Equal(t, int64(12345), syncer.lastEvents[0].ObjectID)

	var payload BatchResponsePayload
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Processed)
	assert.Equal(t, 0, payload.Failed)
}

func TestHubspotWebhookHandlerEventArray(t *testing.T) {
	initTestConf(t, "")
	syncer := &stubSyncer{}
	r := newTestRouter(syncer)

	body := `[
		{"objectId": 12345, "propertyName": "dealstage"},
		{"objectId": 67890, "propertyName": "amount"}
	]`
	req := httptest.NewRequest(http.MethodPost, "http://example.com/webhooks/hubspot",
		bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, syncer.lastEvents, 2)
}

func TestHubspotWebhookHandlerSignature(t *testing.T) {
	const secret = "test-secret"
	const url = "http://example.com/webhooks/hubspot"
	body := []byte(`{"objectId": 12345}`)

	t.Run("ValidSignatureAccepted", func(t *testing.T) {
		initTestConf(t, secret)
		syncer := &stubSyncer{}
		r := newTestRouter(syncer)

		timestamp := strconv.FormatInt(time.Now().UnixNano()/int64(time.Millisecond), 10)
		req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
		req.Header.Set(TimestampHeader, timestamp)
		req.Header.Set(SignatureHeader, signRequest(secret, http.MethodPost, url, body, timestamp))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, syncer.batchCalls)
	})

	t.Run("InvalidSignatureRejectedBeforeEngine", func(t *testing.T) {
		initTestConf(t, secret)
		syncer := &stubSyncer{}
		r := newTestRouter(syncer)

		timestamp := strconv.FormatInt(time.Now().UnixNano()/int64(time.Millisecond), 10)
		req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
		req.Header.Set(TimestampHeader, timestamp)
		req.Header.Set(SignatureHeader, "bm90LXRoZS1yaWdodC1zaWduYXR1cmU=")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, syncer.batchCalls)
	})

	t.Run("StaleTimestampRejected", func(t *testing.T) {
		initTestConf(t, secret)
		syncer := &stubSyncer{}
		r := newTestRouter(syncer)

		stale := time.Now().Add(-10 * time.Minute)
		timestamp := strconv.FormatInt(stale.UnixNano()/int64(time.Millisecond), 10)
		req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
		req.Header.Set(TimestampHeader, timestamp)
		req.Header.Set(SignatureHeader, signRequest(secret, http.MethodPost, url, body, timestamp))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, syncer.batchCalls)
	})

	t.Run("MissingSecretAllows", func(t *testing.T) {
		initTestConf(t, "")
		syncer := &stubSyncer{}
		r := newTestRouter(syncer)

		req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, syncer.batchCalls)
	})
}

func TestHubspotWebhookHandlerInvalidPayload(t *testing.T) {
	initTestConf(t, "")
	syncer := &stubSyncer{}
	r := newTestRouter(syncer)

	req := httptest.NewRequest(http.MethodPost, "http://example.com/webhooks/hubspot",
		bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, syncer.batchCalls)
}

func TestHubspotWebhookHandlerReportsFailures(t *testing.T) {
	initTestConf(t, "")
	syncer := &stubSyncer{result: M.SyncResult{
		Success: false, Action: M.SyncActionError, Message: "deal not found upstream",
	}}
	r := newTestRouter(syncer)

	body := `[{"objectId": 111}, {"objectId": 222}]`
	req := httptest.NewRequest(http.MethodPost, "http://example.com/webhooks/hubspot",
		bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var payload BatchResponsePayload
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Processed)
	assert.Equal(t, 2, payload.Failed)
}

func TestSyncDealHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		initTestConf(t, "")
		syncer := &stubSyncer{}
		r := newTestRouter(syncer)

		req := httptest.NewRequest(http.MethodPost, "http://example.com/sync/deal/12345", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"12345"}, syncer.syncCalls)

		var result M.SyncResult
		assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, M.SyncActionCreated, result.Action)
		assert.Equal(t, "12345", result.DealID)
	})

	t.Run("ErrorResult", func(t *testing.T) {
		initTestConf(t, "")
		syncer := &stubSyncer{result: M.SyncResult{
			Success: false, Action: M.SyncActionError, DealID: "12345", Message: "boom",
		}}
		r := newTestRouter(syncer)

		req := httptest.NewRequest(http.MethodPost, "http://example.com/sync/deal/12345", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	initTestConf(t, "")
	r := newTestRouter(&stubSyncer{})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}
