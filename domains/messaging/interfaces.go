// Package messaging defines the contract of the messaging provider the
// validation and dispatch phases talk to, keyed by instance name.
package messaging

import "context"

// NumberCheck is the per-number result of a capability check
type NumberCheck struct {
	Number string `json:"number"`
	Exists bool   `json:"exists"`
	JID    string `json:"jid"`
}

// MediaRequest describes one media item to deliver
type MediaRequest struct {
	To        string
	MediaType string
	URL       string
	MimeType  *string
	FileName  *string
	DelayMs   int
}

// IMessagingGateway is the messaging provider client
type IMessagingGateway interface {
	CheckNumbers(ctx context.Context, instance string, numbers []string) ([]NumberCheck, error)
	SendText(ctx context.Context, instance, to, text string) (string, error)
	SendMedia(ctx context.Context, instance string, req MediaRequest) (string, error)
	ConnectionState(ctx context.Context, instance string) (string, error)
}

// Connected reports whether a provider connection-state string counts as a
// live session.
func Connected(state string) bool {
	return state == "open" || state == "connected"
}
