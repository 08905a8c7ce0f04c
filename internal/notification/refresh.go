package notification

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler re-registers the push token on a cron schedule, so a token
// rotated by the OS does not silently go stale on the vendor side.
type RefreshScheduler struct {
	cron      *cron.Cron
	registrar *Registrar
}

func NewRefreshScheduler(registrar *Registrar) *RefreshScheduler {
	return &RefreshScheduler{cron: cron.New(), registrar: registrar}
}

// Schedule installs the refresh job. An empty schedule disables refreshing.
func (s *RefreshScheduler) Schedule(schedule string) error {
	if schedule == "" {
		return nil
	}
	_, err := s.cron.AddFunc(schedule, func() {
		result := s.registrar.Refresh()
		if result.Success {
			slog.Debug("push token refreshed")
		} else if result.Error != ErrInvalidToken {
			// No token yet is normal; real failures are worth a warning.
			slog.Warn("push token refresh failed", "error", result.Error, "message", result.Message)
		}
	})
	return err
}

func (s *RefreshScheduler) Start() { s.cron.Start() }
func (s *RefreshScheduler) Stop()  { s.cron.Stop() }
