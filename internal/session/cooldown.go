package session

import "time"

// begins a cooldown of the given duration starting now
func NewCooldown(now time.Time, d time.Duration) Cooldown {
	return Cooldown{StartedAt: now, Duration: d}
}

// remaining = max(0, duration - (now - started_at))
func (c Cooldown) Remaining(now time.Time) time.Duration {
	rem := c.Duration - now.Sub(c.StartedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// reports whether the cooldown has run out and may be overwritten
func (c Cooldown) Expired(now time.Time) bool {
	return c.Remaining(now) == 0
}
