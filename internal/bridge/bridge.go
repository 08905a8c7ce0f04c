// Package bridge owns the module facade over the vendor SDK: the inbound
// call surface, the event callback bridge, and the log handler bridge.
package bridge

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/crisp-im/crisp-bridge/internal/message"
	"github.com/crisp-im/crisp-bridge/internal/notification"
	"github.com/crisp-im/crisp-bridge/internal/sdk"
)

// EventSink receives every outbound event. It must be safe to call from any
// goroutine: SDK callbacks fire on threads the vendor chooses, and the sink
// is invoked inline so per-event ordering is preserved.
type EventSink func(event string, payload map[string]any)

// Module is the JavaScript-facing module instance. One Module owns at most
// one native registration per callback kind for its whole lifetime.
type Module struct {
	client    sdk.Client
	sink      EventSink
	handler   *notification.Handler
	registrar *notification.Registrar

	mu       sync.Mutex
	eventReg sdk.Registration
	logReg   sdk.Registration
}

// New wires a module against a platform adapter. notificationMode is the
// value resolved by the build-time configuration ("sdk-managed",
// "coexistence", or empty for uninitialized).
func New(client sdk.Client, sink EventSink, notificationMode string) *Module {
	m := &Module{client: client, sink: sink}
	m.handler = notification.NewHandler(client.Capabilities(), notification.Sink(sink))
	m.registrar = notification.NewRegistrar(client, notificationMode)
	return m
}

// Registrar exposes the push-token registrar, e.g. for the refresh scheduler.
func (m *Module) Registrar() *notification.Registrar { return m.registrar }

// Attach installs the native callbacks. Attaching twice first tears down the
// existing event registration so each native event is delivered exactly once.
// A setup failure is fatal to module initialization.
func (m *Module) Attach() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.eventReg != nil {
		m.eventReg.Revoke()
		m.eventReg = nil
	}

	eventReg, err := m.client.AddCallback(&eventsCallback{sink: m.sink})
	if err != nil {
		return fmt.Errorf("install events callback: %w", err)
	}
	m.eventReg = eventReg

	// The log handler is installed once and never replaced: the SDK has no
	// removal API, so a second install would double log delivery forever.
	if m.logReg == nil {
		logReg, err := m.client.AddLogHandler(m.forwardLog)
		if err != nil {
			m.eventReg.Revoke()
			m.eventReg = nil
			return fmt.Errorf("install log handler: %w", err)
		}
		m.logReg = logReg
	}
	return nil
}

// Detach revokes every revocable registration. The log handler registration
// is permanent; dropping our reference is all the teardown there is, and the
// native side may keep invoking it. That leak is a platform constraint, not
// something to paper over.
func (m *Module) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.eventReg != nil {
		m.eventReg.Revoke()
		m.eventReg = nil
	}
	if m.logReg != nil {
		if !m.logReg.Revocable() {
			slog.Debug("log handler registration is permanent, dropping reference only")
		}
		m.logReg.Revoke()
		m.logReg = nil
	}
}

// forwardLog normalizes a native log call onto the shared scale and emits it.
func (m *Module) forwardLog(rawLevel int, tag, msg string) {
	var level message.Level
	if m.client.Capabilities().CoarseLogSeverity {
		level = message.WidenSeverity(message.Severity(rawLevel))
	} else {
		level = message.ClampLevel(rawLevel)
	}
	m.sink(EventLogReceived, map[string]any{
		"log": message.LogEntry{Level: level, Tag: tag, Message: msg},
	})
}
