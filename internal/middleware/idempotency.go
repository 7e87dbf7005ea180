package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "idempotency:"
)

// storedResponse is the replayed response for an idempotent request.
type storedResponse struct {
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type"`
}

// captureWriter wraps gin.ResponseWriter to capture the response body.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays a previously stored response when a
// mutating request repeats the same Idempotency-Key. Drivers on flaky
// mobile networks retry trip and GPS calls aggressively; this keeps the
// retries harmless. Redis failures degrade to processing the request
// normally.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyPrefix + key

		stored, err := getStoredResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			c.Next()
			return
		}

		if stored != nil {
			contentType := stored.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			c.Data(stored.StatusCode, contentType, stored.Body)
			c.Abort()
			return
		}

		w := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// 5xx responses are not stored so a retry can succeed.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			response := storedResponse{
				StatusCode:  c.Writer.Status(),
				Body:        w.body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
			}
			_ = setStoredResponse(ctx, redisClient, cacheKey, &response)
		}
	}
}

func getStoredResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

func setStoredResponse(ctx context.Context, client *redis.Client, key string, response *storedResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, idempotencyTTL).Err()
}
