package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TokenKey is the gin context key under which handlers store the job token.
const TokenKey = "conversion_token"

// Logger writes one entry per request. Conversions also carry their job
// token, so a slow or failed request can be matched with the encoder logs.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"bytes":     c.Writer.Size(),
			"duration":  time.Since(start),
			"client_ip": c.ClientIP(),
		}
		if token := c.GetString(TokenKey); token != "" {
			fields["token"] = token
		}
		if c.Request.ContentLength > 0 {
			fields["upload_bytes"] = c.Request.ContentLength
		}

		entry := logrus.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request processed")
		}
	}
}
