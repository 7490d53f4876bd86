package httpx

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// NewClient builds an HTTP client with retry behaviour suited for the
// upstream APIs we poll. It retries connection errors, 5xx responses and
// 429 backoff requests, and returns the stdlib http.Client interface.
func NewClient() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 20 * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}
