package handler

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"

	C "dealsync/config"
	M "dealsync/model"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// DealSyncer is the engine boundary consumed by the handlers.
type DealSyncer interface {
	SyncDeal(dealID string) M.SyncResult
	ProcessBatch(events []M.WebhookEvent) []M.SyncResult
}

// BatchResponsePayload summarizes one processed notification batch.
type BatchResponsePayload struct {
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
	Results   []M.SyncResult `json:"results"`
}

// parseWebhookEvents accepts either a single event object or an array
// of event objects on the same endpoint.
func parseWebhookEvents(body []byte) ([]M.WebhookEvent, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []M.WebhookEvent
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, err
		}
		return events, nil
	}

	var event M.WebhookEvent
	if err := json.Unmarshal(trimmed, &event); err != nil {
		return nil, err
	}
	return []M.WebhookEvent{event}, nil
}

// HubspotWebhookHandler validates notification authenticity and runs
// the batch through the sync engine. Invalid signatures are rejected
// before the engine is invoked.
func HubspotWebhookHandler(ds DealSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := ioutil.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		err = verifySignature(
			C.GetWebhookSecret(),
			c.Request.Method,
			requestURL(c),
			body,
			c.Request.Header.Get(SignatureHeader),
			c.Request.Header.Get(TimestampHeader),
		)
		if err != nil {
			log.WithError(err).Error("Rejected webhook with signature failure.")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		events, err := parseWebhookEvents(body)
		if err != nil {
			log.WithError(err).Error("Failed to parse webhook payload.")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		results := ds.ProcessBatch(events)

		payload := BatchResponsePayload{Results: results}
		for i := range results {
			payload.Processed++
			if !results[i].Success {
				payload.Failed++
			}
		}

		c.JSON(http.StatusOK, payload)
	}
}

func requestURL(c *gin.Context) string {
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
