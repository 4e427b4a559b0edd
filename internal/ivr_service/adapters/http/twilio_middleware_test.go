package http

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTwilioSignatureMiddleware_DisabledPassesThrough(t *testing.T) {
	mw := TwilioSignatureMiddleware("token", "http://localhost:8080", false, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/ivr/welcome", nil)
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTwilioSignatureMiddleware_RejectsBadSignature(t *testing.T) {
	mw := TwilioSignatureMiddleware("token", "http://localhost:8080", true, testLogger())

	form := url.Values{"CallSid": {"CA123"}}
	req := httptest.NewRequest(http.MethodPost, "/ivr/welcome", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", "not-a-real-signature")
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// twilioSign reproduces Twilio's webhook signature: HMAC-SHA1 over the URL
// followed by the sorted form keys concatenated with their values.
func twilioSign(authToken, signedURL string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	payload := signedURL
	for _, k := range keys {
		payload += k + params[k]
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestTwilioSignatureMiddleware_AcceptsValidSignature(t *testing.T) {
	authToken := "token"
	mw := TwilioSignatureMiddleware(authToken, "http://localhost:8080", true, testLogger())

	form := url.Values{"CallSid": {"CA123"}, "From": {"+15551234567"}}
	signature := twilioSign(authToken, "http://localhost:8080/ivr/welcome", map[string]string{
		"CallSid": "CA123",
		"From":    "+15551234567",
	})

	req := httptest.NewRequest(http.MethodPost, "/ivr/welcome", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", signature)
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
