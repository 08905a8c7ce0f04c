package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/crisp-im/crisp-bridge/internal/bridge"
	"github.com/crisp-im/crisp-bridge/internal/config"
	"github.com/crisp-im/crisp-bridge/internal/notification"
	"github.com/crisp-im/crisp-bridge/internal/sdk"
	"github.com/crisp-im/crisp-bridge/internal/sdk/loopback"
)

func newTestServer(t *testing.T, caps sdk.Capabilities) *Server {
	t.Helper()
	client := loopback.New(caps)
	conns := NewConnManager()
	module := bridge.New(client, conns.Broadcast, notification.ModeSDKManaged)
	if err := module.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return NewServer(config.DefaultConfig(), module, conns)
}

func TestDispatchConfigureThenSessionIdentifier(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)
	ctx := context.Background()

	if _, err := s.dispatch(ctx, "configure", json.RawMessage(`{"websiteId":"site-1"}`)); err != nil {
		t.Fatalf("configure: %v", err)
	}

	result, err := s.dispatch(ctx, "getSessionIdentifier", nil)
	if err != nil {
		t.Fatalf("getSessionIdentifier: %v", err)
	}
	payload, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	id, _ := payload["sessionId"].(string)
	if id == "" {
		t.Fatal("expected a session id after configure")
	}
}

func TestDispatchSessionIdentifierBeforeConfigure(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)

	result, err := s.dispatch(context.Background(), "getSessionIdentifier", nil)
	if err != nil {
		t.Fatalf("getSessionIdentifier: %v", err)
	}
	payload := result.(map[string]any)
	if payload["sessionId"] != nil {
		t.Fatalf("expected nil session id, got %v", payload["sessionId"])
	}
}

func TestDispatchUnknownMethod(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)

	_, err := s.dispatch(context.Background(), "selfDestruct", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errorCode(err); code != "UNKNOWN_METHOD" {
		t.Fatalf("code = %q, want UNKNOWN_METHOD", code)
	}
}

func TestDispatchInvalidParams(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)

	_, err := s.dispatch(context.Background(), "setLogLevel", json.RawMessage(`{"level":"high"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errorCode(err); code != "INVALID_PARAMS" {
		t.Fatalf("code = %q, want INVALID_PARAMS", code)
	}
}

func TestDispatchShowMessageDecodeErrorCodes(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)
	ctx := context.Background()

	_, err := s.dispatch(ctx, "showMessage", json.RawMessage(`{"type":"text"}`))
	if err == nil {
		t.Fatal("expected error for missing text field")
	}
	if code := errorCode(err); code != "MISSING_FIELD" {
		t.Fatalf("code = %q, want MISSING_FIELD", code)
	}

	_, err = s.dispatch(ctx, "showMessage", json.RawMessage(`{"type":"hologram"}`))
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if code := errorCode(err); code != "UNKNOWN_TYPE" {
		t.Fatalf("code = %q, want UNKNOWN_TYPE", code)
	}
}

func TestDispatchIsCrispNotification(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)

	result, err := s.dispatch(context.Background(), "isCrispNotification",
		json.RawMessage(`{"sender":"Crisp","website_id":"w","session_id":"s"}`))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	payload := result.(map[string]any)
	if payload["isCrispNotification"] != true {
		t.Fatalf("expected vendor notification, got %v", payload)
	}
}

func TestDispatchRegisterPushToken(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)

	result, err := s.dispatch(context.Background(), "registerPushToken", json.RawMessage(`{"token":"tok-1"}`))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	reg, ok := result.(notification.RegisterResult)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	if !reg.Success {
		t.Fatalf("register failed: %+v", reg)
	}

	status, err := s.dispatch(context.Background(), "getNotificationStatus", nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	st := status.(notification.Status)
	if !st.IsRegistered {
		t.Fatal("expected registered status")
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestServer(t, sdk.AndroidCapabilities)

	if !s.authenticate("anything") {
		t.Fatal("empty configured token should accept any client")
	}

	s.Config.Gateway.Auth.Token = "secret"
	if s.authenticate("wrong") {
		t.Fatal("wrong token accepted")
	}
	if !s.authenticate("secret") {
		t.Fatal("correct token rejected")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	frame := ResErr("req-1", "UNKNOWN_METHOD", "unknown method: x")
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Frame
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "res" || decoded.ID != "req-1" {
		t.Fatalf("unexpected frame: %+v", decoded)
	}
	if decoded.OK == nil || *decoded.OK {
		t.Fatal("expected ok=false")
	}
	if decoded.Error == nil || decoded.Error.Code != "UNKNOWN_METHOD" {
		t.Fatalf("unexpected error payload: %+v", decoded.Error)
	}
}
