package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/karbonfx/leadform/internal/idempotency"
)

// IdempotencyHeader lets a client retry a submit safely: two requests with
// the same key replay one result instead of writing the lead twice.
const IdempotencyHeader = "Idempotency-Key"

const idempotencyTTL = 24 * time.Hour

var errUncacheableResponse = errors.New("response not cacheable")

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header pass through untouched.
func Idempotency(manager idempotency.Manager, log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}

		clientKey := c.GetHeader(IdempotencyHeader)
		if clientKey == "" {
			c.Next()
			return
		}

		// Scope the key to session and route so reuse across sessions
		// cannot replay someone else's response.
		key := idempotency.GenerateKey(c.Param("id"), c.FullPath(), clientKey)

		recorder := &bodyRecorder{ResponseWriter: c.Writer, status: http.StatusOK}
		c.Writer = recorder

		result, err := manager.Execute(c.Request.Context(), key, idempotencyTTL, func(ctx context.Context) (interface{}, error) {
			c.Next()

			// Server faults stay uncached so the client can retry them.
			if recorder.status >= http.StatusInternalServerError {
				return nil, errUncacheableResponse
			}

			body := recorder.body.Bytes()
			if len(body) == 0 {
				body = []byte("null")
			}

			return &cachedResponse{
				Status: recorder.status,
				Body:   json.RawMessage(body),
			}, nil
		})

		c.Writer = recorder.ResponseWriter

		switch {
		case errors.Is(err, idempotency.ErrRequestInProgress):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "A request with this idempotency key is already in progress.",
			})
			return
		case errors.Is(err, errUncacheableResponse):
			recorder.flush()
			return
		case err != nil:
			// The key store is down; serve the request without the
			// idempotency guarantee rather than failing it.
			log.Error("idempotency check failed", slog.String("key", clientKey), slog.Any("error", err))
			c.Next()
			recorder.flush()
			return
		}

		if result.FromCache {
			replayCached(c, result.Response, log)
			return
		}

		recorder.flush()
	}
}

func replayCached(c *gin.Context, response interface{}, log *slog.Logger) {
	encoded, err := json.Marshal(response)
	if err != nil {
		log.Error("failed to re-encode cached response", slog.Any("error", err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var cached cachedResponse
	if err := json.Unmarshal(encoded, &cached); err != nil {
		log.Error("failed to decode cached response", slog.Any("error", err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Idempotency-Replayed", "true")
	c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
	c.Abort()
}

// bodyRecorder buffers the response so it can be cached or replayed.
type bodyRecorder struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *bodyRecorder) WriteHeader(status int) {
	r.status = status
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	return r.body.WriteString(s)
}

func (r *bodyRecorder) flush() {
	r.ResponseWriter.WriteHeader(r.status)
	_, _ = r.ResponseWriter.Write(r.body.Bytes())
}
