package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

type cachedPage struct {
	status      int
	contentType string
	body        []byte
}

// teeWriter mirrors everything the handler writes into a buffer so the
// finished page can be stored once the handler returns.
type teeWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GETs of hot read endpoints, availability grids and
// machine lists mostly, straight from memory for the given TTL. Only 200
// responses are stored; errors always go back to the handler.
func Cache(store *gocache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if hit, ok := store.Get(key); ok {
			page := hit.(cachedPage)
			c.Data(page.status, page.contentType, page.body)
			c.Abort()
			return
		}

		w := &teeWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() == http.StatusOK {
			store.Set(key, cachedPage{
				status:      w.Status(),
				contentType: w.Header().Get("Content-Type"),
				body:        w.buf.Bytes(),
			}, ttl)
		}
	}
}
