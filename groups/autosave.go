package groups

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Autosaver periodically flushes a dirty profile to disk on a cron
// schedule, so toggle state survives host crashes without the host
// sprinkling Save calls through its UI code.
type Autosaver struct {
	profile   *Profile
	schedule  string
	scheduler *cron.Cron
}

// NewAutosaver creates an autosaver. schedule accepts standard cron
// expressions and descriptors such as "@every 30s".
func NewAutosaver(profile *Profile, schedule string) *Autosaver {
	return &Autosaver{profile: profile, schedule: schedule}
}

// Start begins the schedule. A save only happens when the profile is
// dirty; failures are logged and retried on the next firing.
func (a *Autosaver) Start() error {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(a.schedule, a.flush); err != nil {
		return fmt.Errorf("invalid autosave schedule %q: %w", a.schedule, err)
	}

	a.scheduler = scheduler
	scheduler.Start()
	return nil
}

// Stop ends the schedule, waits for an in-flight save to finish, and
// performs a final flush.
func (a *Autosaver) Stop(ctx context.Context) error {
	if a.scheduler != nil {
		stopped := a.scheduler.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		a.scheduler = nil
	}
	return a.profile.Flush()
}

func (a *Autosaver) flush() {
	if err := a.profile.Flush(); err != nil {
		a.profile.logger.Warn("profile autosave failed", "path", a.profile.Path(), "error", err)
	}
}
