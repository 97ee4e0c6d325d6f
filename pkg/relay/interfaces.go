package relay

import (
	"context"
	"net/http"
)

// Upstream defines the HTTP operations the relay needs from an Instagram client
type Upstream interface {
	Fetch(ctx context.Context, rawURL string, headers http.Header) ([]byte, error)
	FetchJSON(ctx context.Context, rawURL string, headers http.Header, target interface{}) error
}
