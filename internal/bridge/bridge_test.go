package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/crisp-im/crisp-bridge/internal/content"
	"github.com/crisp-im/crisp-bridge/internal/message"
	"github.com/crisp-im/crisp-bridge/internal/notification"
	"github.com/crisp-im/crisp-bridge/internal/sdk"
	"github.com/crisp-im/crisp-bridge/internal/sdk/loopback"
)

type recorder struct {
	mu       sync.Mutex
	events   []string
	payloads []map[string]any
}

func (r *recorder) sink(event string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) last(event string) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i] == event {
			return r.payloads[i]
		}
	}
	return nil
}

func newTestModule(t *testing.T, caps sdk.Capabilities) (*Module, *loopback.Client, *recorder) {
	t.Helper()
	client := loopback.New(caps)
	rec := &recorder{}
	m := New(client, rec.sink, notification.ModeCoexistence)
	if err := m.Attach(); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return m, client, rec
}

func TestAttachIsIdempotent(t *testing.T) {
	m, client, rec := newTestModule(t, sdk.AndroidCapabilities)

	// Second attach must not leave a duplicate registration behind.
	if err := m.Attach(); err != nil {
		t.Fatalf("second Attach: %v", err)
	}
	if got := client.CallbackCount(); got != 1 {
		t.Fatalf("callback count = %d, want 1", got)
	}

	client.EmitChatClosed()
	if got := rec.count(EventChatClosed); got != 1 {
		t.Fatalf("chat closed delivered %d times, want exactly once", got)
	}
}

func TestDetachRevokesEventCallback(t *testing.T) {
	m, client, rec := newTestModule(t, sdk.AndroidCapabilities)

	m.Detach()
	if got := client.CallbackCount(); got != 0 {
		t.Fatalf("callback count after detach = %d, want 0", got)
	}
	client.EmitChatClosed()
	if got := rec.count(EventChatClosed); got != 0 {
		t.Fatalf("event delivered after detach: %d", got)
	}
}

func TestSessionLoadedOnConfigure(t *testing.T) {
	m, _, rec := newTestModule(t, sdk.AndroidCapabilities)

	if err := m.Configure("w1"); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	payload := rec.last(EventSessionLoaded)
	if payload == nil {
		t.Fatal("no onSessionLoaded emitted")
	}
	sessionID, _ := payload["sessionId"].(string)
	if sessionID == "" {
		t.Fatalf("empty sessionId in %#v", payload)
	}

	got, err := m.SessionIdentifier(context.Background())
	if err != nil || got != sessionID {
		t.Fatalf("SessionIdentifier = %q, %v; want %q", got, err, sessionID)
	}
}

func TestMessageEventsUseEncoder(t *testing.T) {
	_, client, rec := newTestModule(t, sdk.AndroidCapabilities)

	client.EmitMessageSent("hi there", &sdk.MessageUser{Nickname: "Sam"})
	payload := rec.last(EventMessageSent)
	if payload == nil {
		t.Fatal("no onMessageSent emitted")
	}
	encoded, ok := payload["message"].(message.ChatMessage)
	if !ok {
		t.Fatalf("message payload is %T", payload["message"])
	}
	if encoded.Content != "hi there" || !encoded.IsMe || encoded.Origin != message.OriginLocal {
		t.Fatalf("encoded message: %#v", encoded)
	}
	if encoded.User == nil || encoded.User.Nickname != "Sam" {
		t.Fatalf("user block: %#v", encoded.User)
	}
}

func TestShowMessageStrictDecode(t *testing.T) {
	m, _, rec := newTestModule(t, sdk.AndroidCapabilities)

	err := m.ShowMessage(map[string]any{"type": "file", "url": "https://x.test"})
	var decodeErr *content.DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Field != "name" {
		t.Fatalf("expected missing-name decode error, got %v", err)
	}
	// Strict policy: the failed decode must not have reached the SDK.
	if got := rec.count(EventMessageReceived); got != 0 {
		t.Fatalf("message displayed despite decode failure: %d events", got)
	}

	if err := m.ShowMessage(map[string]any{"type": "text", "text": "welcome"}); err != nil {
		t.Fatalf("ShowMessage: %v", err)
	}
	if got := rec.count(EventMessageReceived); got != 1 {
		t.Fatalf("message received events = %d, want 1", got)
	}
}

func TestLogBridgeWidensCoarseSeverity(t *testing.T) {
	m, _, rec := newTestModule(t, sdk.AppleCapabilities)

	m.SetLogLevel(0)
	// Configure makes the loopback client log at info.
	if err := m.Configure("w1"); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	payload := rec.last(EventLogReceived)
	if payload == nil {
		t.Fatal("no onLogReceived emitted")
	}
	entry, ok := payload["log"].(message.LogEntry)
	if !ok {
		t.Fatalf("log payload is %T", payload["log"])
	}
	if entry.Level != message.LevelInfo {
		t.Fatalf("level = %d, want info", entry.Level)
	}
	if entry.Message == "" {
		t.Fatal("empty log message")
	}
}

func TestLogHandlerSurvivesDetach(t *testing.T) {
	m, _, rec := newTestModule(t, sdk.AndroidCapabilities)

	m.Detach()
	// The SDK keeps the log handler; our teardown only drops the reference.
	m.SetLogLevel(0)
	if err := m.Configure("w1"); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if got := rec.count(EventLogReceived); got == 0 {
		t.Fatal("permanent log registration should keep forwarding")
	}
}

func TestSessionEventBatchLenient(t *testing.T) {
	m, _, _ := newTestModule(t, sdk.AndroidCapabilities)

	err := m.PushSessionEvents([]map[string]any{
		{"name": "A"},
		{"color": float64(3)},
		{"name": "B", "color": float64(1)},
	})
	if err != nil {
		t.Fatalf("PushSessionEvents: %v", err)
	}
}

func TestEndToEndNotificationSuppression(t *testing.T) {
	m, _, rec := newTestModule(t, sdk.AndroidCapabilities)

	display := false
	result := m.HandleNotification(
		map[string]any{"sender": "crisp", "website_id": "w1", "session_id": "s1"},
		notification.Options{DisplayNotification: &display},
	)
	if !result.WasHandled || result.WasDisplayed || result.SessionID != "s1" {
		t.Fatalf("result: %#v", result)
	}
	if got := rec.count(EventNotificationReceived); got != 1 {
		t.Fatalf("notification events = %d, want 1", got)
	}
	payload := rec.last(EventNotificationReceived)
	if displayed, _ := payload["wasDisplayed"].(bool); displayed {
		t.Fatal("event should carry wasDisplayed=false")
	}
}

func TestEndToEndNotificationAlwaysDisplay(t *testing.T) {
	m, _, _ := newTestModule(t, sdk.AppleCapabilities)

	display := false
	result := m.HandleNotification(
		map[string]any{"crisp_session_id": "s1"},
		notification.Options{DisplayNotification: &display},
	)
	if !result.WasHandled || !result.WasDisplayed || len(result.Warnings) != 1 {
		t.Fatalf("result: %#v", result)
	}
}

func TestRegisterPushTokenStructuredResult(t *testing.T) {
	m, _, _ := newTestModule(t, sdk.AndroidCapabilities)

	if result := m.RegisterPushToken("fcm-token-1"); !result.Success {
		t.Fatalf("register: %#v", result)
	}
	status := m.NotificationStatus()
	if !status.IsRegistered || status.Mode != notification.ModeCoexistence {
		t.Fatalf("status: %#v", status)
	}

	if result := m.RegisterPushToken("bad token"); result.Success || result.Error != notification.ErrNetwork {
		t.Fatalf("malformed token should fail structured: %#v", result)
	}
}
