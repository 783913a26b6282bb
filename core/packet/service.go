package packet

import (
	"context"
	"time"

	"github.com/computersciencehouse/packet/core/directory"
)

type (
	// Mailer sends packet emails.
	Mailer interface {
		SendStartPacketMail(ctx context.Context, p Packet, f Freshman) error
	}

	// Notifier sends packet push notifications.
	Notifier interface {
		PacketStarting(ctx context.Context, p Packet) error
		PacketsStarting(ctx context.Context, start time.Time) error
	}

	// SeasonConfig describes when packets start and end.
	SeasonConfig struct {
		StartHour    int
		EndHour      int
		DurationDays int
		Location     *time.Location
	}

	Service struct {
		dir      directory.Service
		mailer   Mailer
		notifier Notifier
		scorer   Scorer
		season   SeasonConfig
	}
)

// DefaultSeason is a season starting at 19:00 and ending 14 days later at 21:00.
var DefaultSeason = SeasonConfig{StartHour: 19, EndHour: 21, DurationDays: 14, Location: time.Local}

func NewService(dir directory.Service, mailer Mailer, notifier Notifier, scorer Scorer, season SeasonConfig) *Service {
	if season.Location == nil {
		season.Location = time.Local
	}
	return &Service{
		dir:      dir,
		mailer:   mailer,
		notifier: notifier,
		scorer:   scorer,
		season:   season,
	}
}

func (svc *Service) Season() SeasonConfig { return svc.season }

func (c SeasonConfig) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Window returns the start and end of a season whose first day is `day`.
func (c SeasonConfig) Window(day time.Time) (start, end time.Time) {
	y, m, d := day.Date()
	start = time.Date(y, m, d, c.StartHour, 0, 0, 0, c.loc())
	end = time.Date(y, m, d+c.DurationDays, c.EndHour, 0, 0, 0, c.loc())
	return start, end
}

// EndOn returns `day` at the packet end hour.
func (c SeasonConfig) EndOn(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.EndHour, 0, 0, 0, c.loc())
}

// DayRange returns the half-open interval [from, to) covering the calendar `day`.
func (c SeasonConfig) DayRange(day time.Time) (from, to time.Time) {
	y, m, d := day.Date()
	from = time.Date(y, m, d, 0, 0, 0, 0, c.loc())
	to = time.Date(y, m, d+1, 0, 0, 0, 0, c.loc())
	return from, to
}

// ParseDate parses an operator-entered MM/DD/YYYY date in the season's timezone.
func (c SeasonConfig) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, c.loc())
}

// DateLayout is the layout of operator-entered dates.
const DateLayout = "1/2/2006"
