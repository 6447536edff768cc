package push

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSender struct {
	name  string
	sent  []string
	reply bool
}

func (s *stubSender) Name() string { return s.name }

func (s *stubSender) Send(_ context.Context, token, _, _ string, _ map[string]string) bool {
	s.sent = append(s.sent, token)
	return s.reply
}

func TestDetectTransport(t *testing.T) {
	apnsToken := strings.Repeat("ab12", 16) // 64 hex chars

	cases := []struct {
		name  string
		token string
		want  Transport
	}{
		{"64 hex chars is APNs", apnsToken, TransportAPNs},
		{"uppercase hex is APNs", strings.Repeat("AB12", 16), TransportAPNs},
		{"64 chars with non-hex is FCM", strings.Repeat("zz12", 16), TransportFCM},
		{"63 hex chars is FCM", apnsToken[:63], TransportFCM},
		{"65 chars is FCM", apnsToken + "a", TransportFCM},
		{"typical FCM token", "dXJ2aXZhbDpBUEE5MWJH:APA91bG-long-opaque-token", TransportFCM},
		{"empty token is FCM", "", TransportFCM},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectTransport(tc.token))
		})
	}
}

func TestRegistry_RoutesByTokenShape(t *testing.T) {
	apns := &stubSender{name: "apns", reply: true}
	fcm := &stubSender{name: "fcm", reply: true}

	r := NewRegistry()
	r.Register(TransportAPNs, apns)
	r.Register(TransportFCM, fcm)

	apnsToken := strings.Repeat("0f", 32)
	assert.True(t, r.Send(context.Background(), apnsToken, "t", "b", nil))
	assert.True(t, r.Send(context.Background(), "fcm-opaque-token", "t", "b", nil))

	assert.Equal(t, []string{apnsToken}, apns.sent)
	assert.Equal(t, []string{"fcm-opaque-token"}, fcm.sent)
}

func TestRegistry_UnconfiguredTransportDrops(t *testing.T) {
	r := NewRegistry()
	r.Register(TransportFCM, &stubSender{name: "fcm", reply: true})

	// APNs-shaped token with no APNs sender: dropped, not misrouted.
	assert.False(t, r.Send(context.Background(), strings.Repeat("0f", 32), "t", "b", nil))
	assert.True(t, r.Available(TransportFCM))
	assert.False(t, r.Available(TransportAPNs))
}

func TestRegistry_NilSafety(t *testing.T) {
	r := NewRegistry()
	r.Register(TransportFCM, nil) // disabled constructor result
	assert.False(t, r.Available(TransportFCM))

	var nilRegistry *Registry
	assert.False(t, nilRegistry.Send(context.Background(), "tok", "t", "b", nil))
	assert.False(t, nilRegistry.Available(TransportFCM))
}
