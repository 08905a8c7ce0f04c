package notification

import (
	"strings"
	"sync"
	"time"
)

// Notification modes written by the build-time plugin and read back from
// config. The mode only affects reporting; handling is a single code path.
const (
	ModeSDKManaged    = "sdk-managed"
	ModeCoexistence   = "coexistence"
	ModeUninitialized = "uninitialized"
)

// Error kinds for structured registration failures.
const (
	ErrInvalidToken = "invalid_token"
	ErrNetwork      = "network_error"
)

// RegisterResult is the structured outcome of a token registration. Vendor
// failures resolve here instead of propagating, because token registration is
// best-effort.
type RegisterResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Status reports the current registration state.
type Status struct {
	IsRegistered   bool   `json:"isRegistered"`
	Mode           string `json:"mode"`
	LastRegistered string `json:"lastRegistered,omitempty"`
}

// TokenSender forwards a push token to the vendor. Implemented by sdk.Client.
type TokenSender interface {
	SendPushToken(token string) error
}

// Registrar tracks push-token registration against the vendor.
type Registrar struct {
	sender TokenSender
	mode   string

	mu             sync.Mutex
	registered     bool
	token          string
	lastRegistered time.Time
}

func NewRegistrar(sender TokenSender, mode string) *Registrar {
	if mode == "" {
		mode = ModeUninitialized
	}
	return &Registrar{sender: sender, mode: mode}
}

// Register sends the token to the vendor and records the outcome.
func (r *Registrar) Register(token string) RegisterResult {
	if strings.TrimSpace(token) == "" {
		return RegisterResult{Success: false, Error: ErrInvalidToken, Message: "push token is empty"}
	}
	if err := r.sender.SendPushToken(token); err != nil {
		return RegisterResult{Success: false, Error: ErrNetwork, Message: err.Error()}
	}

	r.mu.Lock()
	r.registered = true
	r.token = token
	r.lastRegistered = time.Now().UTC()
	r.mu.Unlock()
	return RegisterResult{Success: true}
}

// Unregister clears local registration state. The vendor holds no inverse
// call, so this always succeeds.
func (r *Registrar) Unregister() RegisterResult {
	r.mu.Lock()
	r.registered = false
	r.token = ""
	r.lastRegistered = time.Time{}
	r.mu.Unlock()
	return RegisterResult{Success: true}
}

// Refresh re-sends the last registered token, if any. Used by the scheduled
// refresh; failures only downgrade the registered flag.
func (r *Registrar) Refresh() RegisterResult {
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()
	if token == "" {
		return RegisterResult{Success: false, Error: ErrInvalidToken, Message: "no token registered"}
	}
	result := r.Register(token)
	if !result.Success {
		r.mu.Lock()
		r.registered = false
		r.mu.Unlock()
	}
	return result
}

func (r *Registrar) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := Status{IsRegistered: r.registered, Mode: r.mode}
	if !r.lastRegistered.IsZero() {
		// Same wire format the mobile modules report.
		status.LastRegistered = r.lastRegistered.Format("2006-01-02T15:04:05.000Z")
	}
	return status
}
