package http

import (
	"log/slog"
	"net/http"
	"strings"

	twilioclient "github.com/twilio/twilio-go/client"
)

// TwilioSignatureMiddleware rejects webhook requests whose X-Twilio-Signature
// does not match the posted parameters. baseURL is the public URL Twilio
// signs against, which may differ from the Host header behind a proxy.
// When enabled is false the middleware passes everything through (local
// development, tests).
func TwilioSignatureMiddleware(authToken string, baseURL string, enabled bool, logger *slog.Logger) func(http.Handler) http.Handler {
	validator := twilioclient.NewRequestValidator(authToken)
	trimmedBase := strings.TrimSuffix(baseURL, "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			if err := r.ParseForm(); err != nil {
				logger.WarnContext(r.Context(), "Failed to parse form for signature validation", "error", err)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}

			params := make(map[string]string, len(r.PostForm))
			for key := range r.PostForm {
				params[key] = r.PostForm.Get(key)
			}

			signedURL := trimmedBase + r.URL.RequestURI()
			signature := r.Header.Get("X-Twilio-Signature")
			if !validator.Validate(signedURL, params, signature) {
				logger.WarnContext(r.Context(), "Rejected webhook with invalid Twilio signature",
					"url", signedURL, "remote_addr", r.RemoteAddr)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
