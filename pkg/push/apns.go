package push

import (
	"context"
	"log"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// APNsConfig carries the token-based APNs credentials.
type APNsConfig struct {
	KeyPath    string
	KeyID      string
	TeamID     string
	BundleID   string
	UseSandbox bool
}

// Configured reports whether every required credential is present.
func (c APNsConfig) Configured() bool {
	return c.KeyPath != "" && c.KeyID != "" && c.TeamID != "" && c.BundleID != ""
}

// APNsSender delivers pushes to iOS devices via APNs.
type APNsSender struct {
	client *apns2.Client
	topic  string
}

// NewAPNs constructs the APNs sender. Returns (nil, nil) when the
// config is incomplete so the caller can skip registration instead of
// failing startup.
func NewAPNs(cfg APNsConfig) (*APNsSender, error) {
	if !cfg.Configured() {
		log.Println("⚠️ APNs not fully configured, APNs push disabled")
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyPath)
	if err != nil {
		return nil, err
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.UseSandbox {
		client = client.Development()
	} else {
		client = client.Production()
	}

	log.Println("✅ APNs initialized")
	return &APNsSender{client: client, topic: cfg.BundleID}, nil
}

func (s *APNsSender) Name() string { return "apns" }

// Send delivers one APNs alert. Failures are logged and reported as
// false, never propagated.
func (s *APNsSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) bool {
	p := payload.NewPayload().
		AlertTitle(title).
		AlertBody(body).
		Sound("default").
		Badge(1)
	for k, v := range data {
		p.Custom(k, v)
	}

	res, err := s.client.PushWithContext(ctx, &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     p,
	})
	if err != nil {
		log.Printf("⚠️ APNs send failed: %v", err)
		return false
	}
	if !res.Sent() {
		log.Printf("⚠️ APNs rejected notification: %s", res.Reason)
		return false
	}
	return true
}
