package handlers

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
)

// Register types stored in sessions (gob-encoded by gorilla/sessions).
func init() {
	gob.Register(map[int]int{})
}

// LoggingMiddleware logs the details of each HTTP request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		// Wrap ResponseWriter to capture status code
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		slog.Info("HTTP Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.statusCode,
			"duration", time.Since(start),
			"ip", r.RemoteAddr,
		)
	})
}

// Custom ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// SecurityHeadersMiddleware adds standard security headers
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter struct to hold state
type RateLimiter struct {
	visitors sync.Map
	window   time.Duration
}

// NewRateLimiter creates a new rate limiter with a cleanup goroutine
func NewRateLimiter(window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		window: window,
	}
	// Background cleanup
	go rl.cleanup()
	return rl
}

// cleanup removes old entries to prevent memory leaks
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		now := time.Now()
		rl.visitors.Range(func(key, value interface{}) bool {
			lastSeen := value.(time.Time)
			if now.Sub(lastSeen) > rl.window {
				rl.visitors.Delete(key)
			}
			return true
		})
	}
}

// Middleware enforces the rate limit
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr

		if lastSeen, ok := rl.visitors.Load(ip); ok {
			if time.Since(lastSeen.(time.Time)) < rl.window {
				slog.Warn("Rate limit exceeded", "ip", ip)
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
					Kind:    "rate_limited",
					Message: "Too many requests. Please try again later.",
				}})
				return
			}
		}

		rl.visitors.Store(ip, time.Now())
		next(w, r)
	}
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps a domain error onto the JSON error shape. Internal
// details are logged, never sent to the client.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.Kind(err)

	detail := errorDetail{Kind: kind}
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		detail.Field = ve.Field
		detail.Message = ve.Message
	case status >= http.StatusInternalServerError:
		slog.Error("Internal error", "error", err)
		detail.Message = "Something went wrong. Please try again."
	default:
		detail.Message = userMessage(kind)
	}

	writeJSON(w, status, errorBody{Error: detail})
}

func userMessage(kind string) string {
	switch kind {
	case "not_found":
		return "Order not found. Please check your order ID and token, then try again."
	case "empty_cart":
		return "Your cart is empty. Add some items before checking out."
	case "already_settled":
		return "This order has already been paid for."
	case "invalid_transition":
		return "That action does not apply to the current payment step."
	case "payment_cancelled":
		return "You cancelled the payment process."
	case "payment_declined":
		return "Payment was not completed. Please choose a payment method and try again."
	case "persistence":
		return "Your order is saved locally; syncing is pending. Keep your receipt."
	case "timeout":
		return "The payment service took too long to respond. Please try again."
	default:
		return "Request could not be processed."
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Message: "Invalid request body.",
		}})
		return false
	}
	return true
}
