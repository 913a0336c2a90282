package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (b gzipBody) Close() error {
	err := b.Reader.Close()
	if cerr := b.raw.Close(); err == nil {
		err = cerr
	}
	return err
}

// DecompressRequest replaces a gzip-encoded request body with its
// decompressed form before handlers read it.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			c.Next()
			return
		}

		reader, err := gzip.NewReader(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		c.Request.Body = gzipBody{Reader: reader, raw: c.Request.Body}
		c.Request.Header.Del("Content-Encoding")
		c.Next()
	}
}
