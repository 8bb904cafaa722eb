package client

import (
	"net/http"
	"time"
)

// Bot returns the HTTP client used for Bot API calls. The timeout leaves
// room for a 60s long poll and for uploads of large files to a local Bot API
// server.
func Bot() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Minute,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 90 * time.Second,
			DisableKeepAlives:     false,
		},
	}
}
