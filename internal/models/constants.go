package models

const (
	// DateFormat is the canonical calendar-date key used by the record store,
	// the availability engine and the HTTP API alike.
	DateFormat = "2006-01-02"

	// DefaultWindowDays is how far ahead the booking window rolls.
	DefaultWindowDays = 14

	// DefaultOpenHour and DefaultCloseHour bound the operating day.
	DefaultOpenHour  = 6
	DefaultCloseHour = 23

	// Default per-hour rates around the 18:00 boundary.
	DefaultDayRate      = 400
	DefaultNightRate    = 500
	DefaultBoundaryHour = 18

	// DefaultSessionTTL is the owner session lifetime in seconds.
	DefaultSessionTTL = 24 * 60 * 60

	// MirrorQueueSize is the buffer of the spreadsheet mirror worker queue.
	MirrorQueueSize = 256

	// RateLimitRPS and RateLimitBurst are the default per-client API limits.
	RateLimitRPS   = 10
	RateLimitBurst = 20
)
