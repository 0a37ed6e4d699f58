package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var imageClient = &http.Client{Timeout: 15 * time.Second}

// ProxyImage relays an image from an allow-listed CDN host, preserving its
// Content-Type. Profile images on social CDNs reject cross-origin loads, so
// the dashboard fetches them through this endpoint instead.
func ProxyImage(allowedHosts []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawURL := c.Query("url")
		if rawURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
			return
		}

		parsed, err := url.Parse(rawURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image URL"})
			return
		}

		if !hostAllowed(parsed.Hostname(), allowedHosts) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image host not allowed"})
			return
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, rawURL, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build image request"})
			return
		}

		resp, err := imageClient.Do(req)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch image"})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream returned an error"})
			return
		}

		c.Header("Cache-Control", "public, max-age=86400")
		c.DataFromReader(http.StatusOK, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, nil)
	}
}

// hostAllowed matches a hostname against the allow-list by suffix, so
// subdomain variants of each CDN pass
func hostAllowed(hostname string, allowed []string) bool {
	for _, suffix := range allowed {
		if hostname == suffix || strings.HasSuffix(hostname, "."+suffix) {
			return true
		}
	}
	return false
}
