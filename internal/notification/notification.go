// Package notification classifies inbound push payloads and handles the ones
// that belong to the messaging vendor.
package notification

import (
	"strings"

	"github.com/crisp-im/crisp-bridge/internal/sdk"
)

const (
	vendorName = "crisp"
	// keyPrefix marks vendor keys on platforms that only expose a
	// simplified key/value payload.
	keyPrefix = "crisp_"

	// EventReceived is emitted through the bridge sink for every handled
	// vendor notification.
	EventReceived = "onNotificationReceived"

	warnSuppressionUnsupported = "displayNotification=false ignored: this platform always displays notifications"
)

// Result describes what happened to an inbound push payload.
type Result struct {
	WasHandled   bool     `json:"wasHandled"`
	WasDisplayed bool     `json:"wasDisplayed"`
	SessionID    string   `json:"sessionId,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Options are the caller's handling preferences.
type Options struct {
	// DisplayNotification asks the OS to show the notification. Defaults
	// to true; only honored where the platform can suppress display.
	DisplayNotification *bool `json:"displayNotification,omitempty"`
}

// Sink receives the emitted event for a handled notification.
type Sink func(event string, payload map[string]any)

// Handler classifies and handles push payloads for one platform profile.
type Handler struct {
	caps sdk.Capabilities
	sink Sink
}

func NewHandler(caps sdk.Capabilities, sink Sink) *Handler {
	return &Handler{caps: caps, sink: sink}
}

// IsVendorNotification reports whether the payload originates from the
// vendor. With a structured payload all three marker fields must hold;
// otherwise presence of any vendor-prefixed key is enough.
func (h *Handler) IsVendorNotification(payload map[string]any) bool {
	if payload == nil {
		return false
	}
	if h.caps.StructuredPush {
		sender, _ := payload["sender"].(string)
		return strings.EqualFold(sender, vendorName) &&
			payload["website_id"] != nil &&
			payload["session_id"] != nil
	}
	for key := range payload {
		if strings.HasPrefix(key, keyPrefix) {
			return true
		}
	}
	return false
}

// Handle processes one inbound payload. Non-vendor payloads are reported
// unhandled with no event emitted. For vendor payloads the display decision
// depends on platform capability, and exactly one EventReceived is emitted
// before returning.
func (h *Handler) Handle(payload map[string]any, opts Options) Result {
	if !h.IsVendorNotification(payload) {
		return Result{WasHandled: false, WasDisplayed: false}
	}

	display := true
	if opts.DisplayNotification != nil {
		display = *opts.DisplayNotification
	}

	result := Result{WasHandled: true, SessionID: h.sessionID(payload)}
	if h.caps.DisplaySuppression {
		result.WasDisplayed = display
	} else {
		// The OS already displayed it; suppression is a capability gap,
		// reported as a warning rather than an error.
		result.WasDisplayed = true
		if !display {
			result.Warnings = append(result.Warnings, warnSuppressionUnsupported)
		}
	}

	if h.sink != nil {
		h.sink(EventReceived, map[string]any{
			"notification": payload,
			"wasDisplayed": result.WasDisplayed,
		})
	}
	return result
}

func (h *Handler) sessionID(payload map[string]any) string {
	if id, ok := payload["session_id"].(string); ok {
		return id
	}
	if id, ok := payload[keyPrefix+"session_id"].(string); ok {
		return id
	}
	return ""
}
