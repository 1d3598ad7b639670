package app

import (
	"net"
	"net/http"
	"time"
)

// newLLMHTTPClient returns the client used for rewrite requests. Model
// responses can take a while, so the overall timeout is generous while
// dial and TLS setup stay short.
func newLLMHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
