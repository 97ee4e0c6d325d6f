package relay

import (
	"context"
	"encoding/json"

	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"
)

// Proxy is the generic relay: it fetches any URL with the fixed browser
// headers and returns the body without reshaping it
type Proxy struct {
	upstream Upstream
	headers  instagram.HeaderBuilder
	logger   logger.Logger
}

// NewProxy creates a generic proxy using the static header table
func NewProxy(upstream Upstream, log logger.Logger) *Proxy {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Proxy{
		upstream: upstream,
		headers:  instagram.StaticHeaders{},
		logger:   log,
	}
}

// Forward fetches target and returns a JSON-encodable body.
// JSON bodies pass through unchanged; anything else is returned as a JSON string.
func (p *Proxy) Forward(ctx context.Context, target string) (json.RawMessage, error) {
	if target == "" {
		return nil, ErrMissingParameter
	}

	p.logger.InfoWithFields("proxying request", map[string]interface{}{"url": target})

	body, err := p.upstream.Fetch(ctx, target, p.headers.Build())
	if err != nil {
		return nil, err
	}
	return EncodeBody(body), nil
}
