package handler

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ProxyTo forwards requests under prefix to upstream with the prefix removed.
// The browser's session cookie is not forwarded.
func ProxyTo(upstream, prefix string, timeout time.Duration) gin.HandlerFunc {
	client := &http.Client{Timeout: timeout}
	return func(c *gin.Context) {
		// Build target URL
		path := strings.TrimPrefix(c.Request.URL.Path, prefix)
		if path == "" {
			path = "/"
		}
		targetURL := upstream + path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewReader(bodyBytes))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create request"})
			return
		}
		for key, values := range c.Request.Header {
			if key == "Cookie" {
				continue
			}
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("Error proxying request to %s: %v", upstream, err)
			c.JSON(http.StatusBadGateway, gin.H{"message": "Service unavailable"})
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read response"})
			return
		}

		for key, values := range resp.Header {
			if key == "Content-Length" {
				continue
			}
			for _, value := range values {
				c.Writer.Header().Add(key, value)
			}
		}
		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}
