package bridge

import (
	"github.com/crisp-im/crisp-bridge/internal/message"
	"github.com/crisp-im/crisp-bridge/internal/notification"
	"github.com/crisp-im/crisp-bridge/internal/sdk"
)

// Outbound event channel names.
const (
	EventSessionLoaded        = "onSessionLoaded"
	EventChatOpened           = "onChatOpened"
	EventChatClosed           = "onChatClosed"
	EventMessageSent          = "onMessageSent"
	EventMessageReceived      = "onMessageReceived"
	EventLogReceived          = "onLogReceived"
	EventNotificationReceived = notification.EventReceived
)

// EventNames lists every outbound channel, in the order they are documented.
func EventNames() []string {
	return []string{
		EventSessionLoaded,
		EventChatOpened,
		EventChatClosed,
		EventMessageSent,
		EventMessageReceived,
		EventLogReceived,
		EventNotificationReceived,
	}
}

// eventsCallback adapts SDK chat events to the emission sink, applying the
// message encoder where a native message crosses the boundary.
type eventsCallback struct {
	sink EventSink
}

func (c *eventsCallback) OnSessionLoaded(sessionID string) {
	c.sink(EventSessionLoaded, map[string]any{"sessionId": sessionID})
}

func (c *eventsCallback) OnChatOpened() {
	c.sink(EventChatOpened, map[string]any{})
}

func (c *eventsCallback) OnChatClosed() {
	c.sink(EventChatClosed, map[string]any{})
}

func (c *eventsCallback) OnMessageSent(msg sdk.Message) {
	c.sink(EventMessageSent, map[string]any{"message": message.Encode(msg)})
}

func (c *eventsCallback) OnMessageReceived(msg sdk.Message) {
	c.sink(EventMessageReceived, map[string]any{"message": message.Encode(msg)})
}
