package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status int
	header http.Header
	body   []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache memoizes successful GET responses by request URI. Only safe for
// endpoints whose output does not depend on the caller's identity.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if v, found := store.Get(key); found {
			resp := v.(cachedResponse)
			for k, vals := range resp.header {
				c.Writer.Header()[k] = vals
			}
			c.Writer.WriteHeader(resp.status)
			_, _ = c.Writer.Write(resp.body)
			c.Abort()
			return
		}

		w := &bodyCacheWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = w
		c.Next()

		if w.Status() >= 200 && w.Status() < 300 {
			store.Set(key, cachedResponse{
				status: w.Status(),
				header: w.Header().Clone(),
				body:   w.body.Bytes(),
			}, ttl)
		}
	}
}
