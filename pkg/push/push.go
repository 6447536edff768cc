package push

import (
	"context"
	"log"
)

// Transport identifies a push delivery backend.
type Transport string

const (
	TransportAPNs Transport = "apns"
	TransportFCM  Transport = "fcm"
)

// Sender delivers one best-effort push message to one device token.
// Implementations report success but never return an error: push is a
// fire-and-forget layer above the persisted in-app notification.
type Sender interface {
	Name() string
	Send(ctx context.Context, token, title, body string, data map[string]string) bool
}

// DetectTransport infers the delivery backend from the token shape.
// APNs tokens are exactly 64 hex characters; everything else is FCM.
func DetectTransport(token string) Transport {
	if len(token) != 64 {
		return TransportFCM
	}
	for _, c := range token {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return TransportFCM
		}
	}
	return TransportAPNs
}

// Registry holds the senders configured at startup. Transports are
// registered only when their credentials are present; an unregistered
// transport silently drops sends.
type Registry struct {
	senders map[Transport]Sender
}

// NewRegistry creates an empty push registry
func NewRegistry() *Registry {
	return &Registry{senders: make(map[Transport]Sender)}
}

// Register installs a sender for a transport. Nil senders (disabled
// constructors) are ignored.
func (r *Registry) Register(transport Transport, sender Sender) {
	if sender == nil {
		return
	}
	r.senders[transport] = sender
	log.Printf("✅ Push transport registered: %s", transport)
}

// Available reports whether a transport has a configured sender.
func (r *Registry) Available(transport Transport) bool {
	if r == nil {
		return false
	}
	_, ok := r.senders[transport]
	return ok
}

// Send routes one message to the transport matching the token shape.
// Returns false when delivery fails or the transport is not configured;
// callers treat either as an absorbed, non-fatal outcome.
func (r *Registry) Send(ctx context.Context, token, title, body string, data map[string]string) bool {
	if r == nil {
		return false
	}
	transport := DetectTransport(token)
	sender, ok := r.senders[transport]
	if !ok {
		log.Printf("⚠️ Push transport %s not configured, dropping notification", transport)
		return false
	}
	return sender.Send(ctx, token, title, body, data)
}
