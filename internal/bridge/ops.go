package bridge

import (
	"context"
	"fmt"

	"github.com/crisp-im/crisp-bridge/internal/content"
	"github.com/crisp-im/crisp-bridge/internal/message"
	"github.com/crisp-im/crisp-bridge/internal/notification"
	"github.com/crisp-im/crisp-bridge/internal/profile"
)

// Configuration.

func (m *Module) Configure(websiteID string) error {
	if err := m.client.Configure(websiteID); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	return nil
}

// SetTokenID binds the session to a caller token. An empty string clears it.
func (m *Module) SetTokenID(tokenID string) error {
	return m.client.SetTokenID(tokenID)
}

// SetLogLevel sets the native verbosity threshold from a shared-scale
// ordinal, narrowing it on platforms with the coarse scale.
func (m *Module) SetLogLevel(level int) {
	shared := message.ClampLevel(level)
	if m.client.Capabilities().CoarseLogSeverity {
		m.client.SetLogLevel(int(message.NarrowLevel(shared)))
		return
	}
	m.client.SetLogLevel(int(shared))
}

// Identity.

func (m *Module) SetUserEmail(email, signature string) error {
	return m.client.SetUserEmail(email, signature)
}

func (m *Module) SetUserNickname(nickname string) error {
	return m.client.SetUserNickname(nickname)
}

func (m *Module) SetUserPhone(phone string) error {
	return m.client.SetUserPhone(phone)
}

// SetUserCompany decodes leniently: partial company data is still useful, so
// this never rejects a payload.
func (m *Module) SetUserCompany(payload map[string]any) error {
	return m.client.SetUserCompany(profile.DecodeCompany(payload))
}

func (m *Module) SetUserAvatar(url string) error {
	return m.client.SetUserAvatar(url)
}

// Session data.

func (m *Module) SetSessionString(key, value string) error {
	return m.client.SetSessionString(key, value)
}

func (m *Module) SetSessionBool(key string, value bool) error {
	return m.client.SetSessionBool(key, value)
}

func (m *Module) SetSessionInt(key string, value int) error {
	return m.client.SetSessionInt(key, value)
}

func (m *Module) SetSessionSegment(segment string) error {
	return m.client.SetSessionSegment(segment)
}

func (m *Module) SetSessionSegments(segments []string, overwrite bool) error {
	return m.client.SetSessionSegments(segments, overwrite)
}

// SessionIdentifier resolves the current session id, empty when no session is
// loaded yet. Single-shot: no timeout or retry of its own.
func (m *Module) SessionIdentifier(ctx context.Context) (string, error) {
	return m.client.SessionIdentifier(ctx)
}

// Timeline events.

func (m *Module) PushSessionEvent(name string, color int) error {
	if name == "" {
		return nil
	}
	return m.client.PushSessionEvents([]profile.SessionEvent{
		{Name: name, Color: profile.ColorFromInt(color)},
	})
}

// PushSessionEvents decodes a batch leniently (malformed entries skipped) and
// forwards whatever remains.
func (m *Module) PushSessionEvents(payloads []map[string]any) error {
	events := profile.DecodeSessionEvents(payloads)
	if len(events) == 0 {
		return nil
	}
	return m.client.PushSessionEvents(events)
}

func (m *Module) ResetSession() error {
	return m.client.ResetSession()
}

// UI triggers.

func (m *Module) Show() error {
	return m.client.Show()
}

func (m *Module) SearchHelpdesk() error {
	return m.client.SearchHelpdesk()
}

func (m *Module) OpenHelpdeskArticle(id, locale, title, category string) error {
	return m.client.OpenHelpdeskArticle(id, locale, title, category)
}

func (m *Module) RunBotScenario(id string) error {
	return m.client.RunBotScenario(id)
}

// ShowMessage decodes strictly before touching the SDK: a malformed payload
// must produce no native side effect.
func (m *Module) ShowMessage(payload map[string]any) error {
	body, err := content.Decode(payload)
	if err != nil {
		return err
	}
	return m.client.ShowMessage(body)
}

// Push notifications.

func (m *Module) RegisterPushToken(token string) notification.RegisterResult {
	return m.registrar.Register(token)
}

func (m *Module) UnregisterPushToken() notification.RegisterResult {
	return m.registrar.Unregister()
}

func (m *Module) NotificationStatus() notification.Status {
	return m.registrar.Status()
}

func (m *Module) IsVendorNotification(payload map[string]any) bool {
	return m.handler.IsVendorNotification(payload)
}

func (m *Module) HandleNotification(payload map[string]any, opts notification.Options) notification.Result {
	return m.handler.Handle(payload, opts)
}
