package sessions

import (
	"fmt"
	"math"
	"strings"
	"time"

	"hrmconsole/internal/platform/listing"
)

const DefaultPageSize = 10

// StatusFilter is a Status or "all".
type StatusFilter string

const StatusFilterAll StatusFilter = "all"

func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "", string(StatusFilterAll):
		return StatusFilterAll, nil
	case string(StatusActive), string(StatusTerminated), string(StatusExpired):
		return StatusFilter(v), nil
	}
	return "", fmt.Errorf("unknown session status %q", raw)
}

type Query struct {
	Search string
	Status StatusFilter
	// Date keeps sessions that started on the same calendar day, in Date's location.
	Date time.Time
	Page int
}

func (q Query) matches(s Session) bool {
	if q.Search != "" {
		hit := listing.ContainsFold(s.UserName, q.Search) ||
			listing.ContainsFold(s.UserEmail, q.Search) ||
			strings.Contains(s.IPAddress, q.Search) ||
			(s.Location != "" && listing.ContainsFold(s.Location, q.Search))
		if !hit {
			return false
		}
	}
	if q.Status != "" && q.Status != StatusFilterAll && Status(q.Status) != s.Status {
		return false
	}
	if !q.Date.IsZero() && !sameDay(s.LoginTime.In(q.Date.Location()), q.Date) {
		return false
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func Filter(list []Session, q Query) []Session {
	out := make([]Session, 0, len(list))
	for _, s := range list {
		if q.matches(s) {
			out = append(out, s)
		}
	}
	return out
}

func Apply(list []Session, q Query, pageSize int) listing.Page[Session] {
	return listing.NewPage(Filter(list, q), q.Page, pageSize)
}

type Summary struct {
	Active          int    `json:"activeSessions"`
	Total           int    `json:"totalSessions"`
	AverageDuration int    `json:"averageDuration"`
	AverageText     string `json:"averageDurationText"`
	Locations       int    `json:"locations"`
}

// Summarize averages only sessions with a known duration.
func Summarize(list []Session) Summary {
	sum := Summary{Total: len(list)}
	var minutes, measured int
	places := map[string]struct{}{}
	for _, s := range list {
		if s.Status == StatusActive {
			sum.Active++
		}
		if s.Duration > 0 {
			minutes += s.Duration
			measured++
		}
		if s.Location != "" {
			places[s.Location] = struct{}{}
		}
	}
	if measured > 0 {
		sum.AverageDuration = int(math.Round(float64(minutes) / float64(measured)))
	}
	sum.AverageText = FormatDuration(sum.AverageDuration)
	sum.Locations = len(places)
	return sum
}
