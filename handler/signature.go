package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"time"
)

const (
	SignatureHeader = "X-HubSpot-Signature-v3"
	TimestampHeader = "X-HubSpot-Request-Timestamp"

	// Notifications older than this are rejected as replays.
	signatureFreshness = 5 * time.Minute
)

var (
	errMissingSignature = errors.New("missing signature or timestamp header")
	errStaleTimestamp   = errors.New("stale request timestamp")
	errInvalidSignature = errors.New("invalid signature")
)

// verifySignature checks the HMAC SHA-256 over method+url+body+timestamp.
// An empty secret allows the request through - an explicit
// non-production bypass, not a default to rely on.
func verifySignature(secret, method, requestURL string, body []byte, signature, timestampMillis string) error {
	if secret == "" {
		return nil
	}

	if signature == "" || timestampMillis == "" {
		return errMissingSignature
	}

	millis, err := strconv.ParseInt(timestampMillis, 10, 64)
	if err != nil {
		return errStaleTimestamp
	}
	sentAt := time.Unix(millis/1000, 0)
	age := time.Since(sentAt)
	if age > signatureFreshness || age < -signatureFreshness {
		return errStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(method))
	mac.Write([]byte(requestURL))
	mac.Write(body)
	mac.Write([]byte(timestampMillis))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errInvalidSignature
	}

	return nil
}
