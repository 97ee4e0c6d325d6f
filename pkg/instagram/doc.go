// Package instagram talks to Instagram's private and web APIs.
//
// It holds three things:
//   - header builders for the anonymous proxy and the logged-in relay
//   - URL builders for the profile, timeline, story and clips endpoints
//   - a single-shot HTTP client that returns typed upstream errors
//
// Example usage:
//
//	client := instagram.NewClient(30*time.Second, log)
//	headers := instagram.NewSessionHeaders(cfg.Instagram.UserAgent, creds)
//	endpoints := instagram.DefaultEndpoints()
//
//	var resp instagram.ProfileResponse
//	err := client.FetchJSON(ctx, endpoints.ProfileURL("nasa"), headers.Build(), &resp)
//	if igErr, ok := errors.As(err); ok && igErr.Type == errors.ErrorTypeRateLimit {
//	    // back off
//	}
package instagram
