package notification

import (
	"errors"
	"strings"
	"testing"

	"github.com/crisp-im/crisp-bridge/internal/sdk"
)

type sinkRecorder struct {
	events   []string
	payloads []map[string]any
}

func (r *sinkRecorder) sink(event string, payload map[string]any) {
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}

func boolPtr(v bool) *bool { return &v }

func vendorPayload() map[string]any {
	return map[string]any{
		"sender":     "crisp",
		"website_id": "w1",
		"session_id": "s1",
	}
}

func TestIsVendorNotificationStructured(t *testing.T) {
	h := NewHandler(sdk.AndroidCapabilities, nil)

	tests := []struct {
		name    string
		payload map[string]any
		want    bool
	}{
		{"full match", vendorPayload(), true},
		{"case insensitive sender", map[string]any{
			"sender": "CRISP", "website_id": "w", "session_id": "s",
		}, true},
		{"wrong sender", map[string]any{
			"sender": "other", "website_id": "w", "session_id": "s",
		}, false},
		{"missing website_id", map[string]any{"sender": "crisp", "session_id": "s"}, false},
		{"nil session_id", map[string]any{
			"sender": "crisp", "website_id": "w", "session_id": nil,
		}, false},
		{"nil payload", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := h.IsVendorNotification(tc.payload); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsVendorNotificationSimplified(t *testing.T) {
	h := NewHandler(sdk.AppleCapabilities, nil)

	if !h.IsVendorNotification(map[string]any{"crisp_session_id": "s1", "aps": map[string]any{}}) {
		t.Fatal("vendor-prefixed key should classify as vendor")
	}
	if h.IsVendorNotification(map[string]any{"aps": map[string]any{}, "sender": "crisp"}) {
		t.Fatal("structured markers alone should not classify on the simplified platform")
	}
}

func TestHandleNonVendorPayload(t *testing.T) {
	rec := &sinkRecorder{}
	h := NewHandler(sdk.AndroidCapabilities, rec.sink)

	result := h.Handle(map[string]any{"sender": "other"}, Options{})
	if result.WasHandled || result.WasDisplayed {
		t.Fatalf("non-vendor payload must be untouched, got %#v", result)
	}
	if len(rec.events) != 0 {
		t.Fatalf("no event should be emitted, got %v", rec.events)
	}
}

func TestHandleSuppressionOnCapablePlatform(t *testing.T) {
	rec := &sinkRecorder{}
	h := NewHandler(sdk.AndroidCapabilities, rec.sink)

	result := h.Handle(vendorPayload(), Options{DisplayNotification: boolPtr(false)})
	want := Result{WasHandled: true, WasDisplayed: false, SessionID: "s1"}
	if result.WasHandled != want.WasHandled || result.WasDisplayed != want.WasDisplayed || result.SessionID != want.SessionID {
		t.Fatalf("got %#v, want %#v", result, want)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("no warnings expected, got %v", result.Warnings)
	}

	if len(rec.events) != 1 || rec.events[0] != EventReceived {
		t.Fatalf("expected exactly one %s event, got %v", EventReceived, rec.events)
	}
	if displayed, _ := rec.payloads[0]["wasDisplayed"].(bool); displayed {
		t.Fatal("event payload should carry wasDisplayed=false")
	}
}

func TestHandleAlwaysDisplayPlatform(t *testing.T) {
	rec := &sinkRecorder{}
	h := NewHandler(sdk.AppleCapabilities, rec.sink)

	result := h.Handle(map[string]any{"crisp_session_id": "s1"}, Options{DisplayNotification: boolPtr(false)})
	if !result.WasHandled || !result.WasDisplayed {
		t.Fatalf("got %#v, want handled and displayed", result)
	}
	if result.SessionID != "s1" {
		t.Fatalf("session id should come from the prefixed key, got %q", result.SessionID)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "always displays") {
		t.Fatalf("expected a suppression warning, got %v", result.Warnings)
	}
}

func TestHandleDefaultsToDisplay(t *testing.T) {
	rec := &sinkRecorder{}
	h := NewHandler(sdk.AndroidCapabilities, rec.sink)

	result := h.Handle(vendorPayload(), Options{})
	if !result.WasDisplayed {
		t.Fatal("displayNotification should default to true")
	}
}

type fakeSender struct {
	err  error
	sent []string
}

func (f *fakeSender) SendPushToken(token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, token)
	return nil
}

func TestRegistrarRegister(t *testing.T) {
	sender := &fakeSender{}
	r := NewRegistrar(sender, ModeCoexistence)

	result := r.Register("tok-1")
	if !result.Success {
		t.Fatalf("register failed: %#v", result)
	}
	status := r.Status()
	if !status.IsRegistered || status.Mode != ModeCoexistence {
		t.Fatalf("status: %#v", status)
	}
	if status.LastRegistered == "" || !strings.HasSuffix(status.LastRegistered, "Z") {
		t.Fatalf("lastRegistered should be UTC wire format, got %q", status.LastRegistered)
	}
}

func TestRegistrarStructuredFailures(t *testing.T) {
	r := NewRegistrar(&fakeSender{}, ModeSDKManaged)
	if result := r.Register("  "); result.Success || result.Error != ErrInvalidToken {
		t.Fatalf("blank token: %#v", result)
	}

	r = NewRegistrar(&fakeSender{err: errors.New("boom")}, ModeSDKManaged)
	result := r.Register("tok")
	if result.Success || result.Error != ErrNetwork || result.Message != "boom" {
		t.Fatalf("vendor failure should resolve structured, got %#v", result)
	}
	if r.Status().IsRegistered {
		t.Fatal("failed registration must not mark registered")
	}
}

func TestRegistrarUnregisterAndRefresh(t *testing.T) {
	sender := &fakeSender{}
	r := NewRegistrar(sender, ModeSDKManaged)
	r.Register("tok-1")

	if result := r.Refresh(); !result.Success {
		t.Fatalf("refresh with token should succeed: %#v", result)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("refresh should re-send the token, sent=%v", sender.sent)
	}

	r.Unregister()
	status := r.Status()
	if status.IsRegistered || status.LastRegistered != "" {
		t.Fatalf("unregister should clear state: %#v", status)
	}
	if result := r.Refresh(); result.Success {
		t.Fatal("refresh without token should fail")
	}
}
