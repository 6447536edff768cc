package push

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMSender delivers pushes to Android devices via Firebase Cloud
// Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCM constructs the FCM sender from a service-account credentials
// file. Returns (nil, nil) when credentials are not provided so the
// caller can skip registration instead of failing startup.
func NewFCM(credentialsFile string) (*FCMSender, error) {
	if credentialsFile == "" {
		log.Println("⚠️ Firebase credentials not provided, FCM push disabled")
		return nil, nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		return nil, err
	}

	log.Println("✅ Firebase FCM initialized")
	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Name() string { return "fcm" }

// Send delivers one FCM message. Failures are logged and reported as
// false, never propagated.
func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) bool {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "taps_alerts",
				Sound:     "default",
			},
		},
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		if messaging.IsUnregistered(err) {
			log.Printf("⚠️ FCM token unregistered (stale): %.20s...", token)
		} else {
			log.Printf("⚠️ FCM send failed: %v", err)
		}
		return false
	}
	return true
}
