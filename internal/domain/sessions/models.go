// Package sessions monitors the HR backend's login sessions: listing with derived
// status and device details, termination and the PDF report.
package sessions

import (
	"fmt"
	"strings"
	"time"

	"hrmconsole/internal/platform/backend"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
	StatusExpired    Status = "expired"
)

// Label is the Spanish text shown for the status.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Activa"
	case StatusTerminated:
		return "Terminada"
	case StatusExpired:
		return "Expirada"
	}
	return string(s)
}

type Agent struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Mobile  bool   `json:"mobile"`
}

type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserEmail  string    `json:"userEmail"`
	LoginTime  time.Time `json:"loginTime"`
	LogoutTime time.Time `json:"logoutTime,omitzero"`
	ExpiresAt  time.Time `json:"expiresAt,omitzero"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	Location   string    `json:"location,omitempty"`
	Status     Status    `json:"status"`
	// Duration is in whole minutes; 0 means unknown.
	Duration int   `json:"duration,omitempty"`
	Agent    Agent `json:"agent"`
}

func (s Session) DurationText() string {
	return FormatDuration(s.Duration)
}

type userWire struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Wire is the backend's session record. The token is never read.
type Wire struct {
	ID              int64     `json:"id,omitempty"`
	FechaInicio     string    `json:"fechaInicio"`
	FechaExpiracion string    `json:"fechaExpiracion"`
	Activa          bool      `json:"activa"`
	IPAddress       string    `json:"ipAddress,omitempty"`
	UserAgent       string    `json:"userAgent,omitempty"`
	FechaFin        string    `json:"fechaFin,omitempty"`
	Ubicacion       string    `json:"ubicacion,omitempty"`
	Usuario         *userWire `json:"usuario,omitempty"`
}

type closeWire struct {
	Activa   bool   `json:"activa"`
	FechaFin string `json:"fechaFin"`
}

func FromWire(w Wire, now time.Time) Session {
	s := Session{
		ID:         backend.FormatID(w.ID),
		LoginTime:  backend.ParseTime(w.FechaInicio),
		LogoutTime: backend.ParseTime(w.FechaFin),
		ExpiresAt:  backend.ParseTime(w.FechaExpiracion),
		IPAddress:  w.IPAddress,
		UserAgent:  w.UserAgent,
		Location:   w.Ubicacion,
		Agent:      ClassifyAgent(w.UserAgent),
	}
	if u := w.Usuario; u != nil {
		s.UserID = backend.FormatID(u.ID)
		s.UserName = u.Username
		s.UserEmail = u.Email
	}
	s.Status = DeriveStatus(w.Activa, s.LogoutTime, s.ExpiresAt)
	s.Duration = DurationMinutes(s.Status, s.LoginTime, s.LogoutTime, now)
	return s
}

func FromWireList(list []Wire, now time.Time) []Session {
	out := make([]Session, 0, len(list))
	for _, w := range list {
		out = append(out, FromWire(w, now))
	}
	return out
}

// DeriveStatus: active while the backend says so, terminated when closed before its
// expiry, expired otherwise.
func DeriveStatus(active bool, ended, expires time.Time) Status {
	if active {
		return StatusActive
	}
	if !ended.IsZero() && (expires.IsZero() || ended.Before(expires)) {
		return StatusTerminated
	}
	return StatusExpired
}

// DurationMinutes measures start to end, or start to now for active sessions.
func DurationMinutes(status Status, start, end, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	stop := end
	if status == StatusActive {
		stop = now
	}
	if stop.IsZero() || stop.Before(start) {
		return 0
	}
	return int(stop.Sub(start) / time.Minute)
}

func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// ClassifyAgent inspects the user agent in a fixed order; Chrome agents also
// mention Safari so Chrome is checked first.
func ClassifyAgent(ua string) Agent {
	a := Agent{Browser: "Desconocido", OS: "Desconocido"}
	switch {
	case strings.Contains(ua, "Chrome"):
		a.Browser = "Chrome"
	case strings.Contains(ua, "Safari"):
		a.Browser = "Safari"
	case strings.Contains(ua, "Firefox"):
		a.Browser = "Firefox"
	case strings.Contains(ua, "Edge"):
		a.Browser = "Edge"
	}
	switch {
	case strings.Contains(ua, "Windows"):
		a.OS = "Windows"
	case strings.Contains(ua, "Mac OS X"):
		a.OS = "macOS"
	case strings.Contains(ua, "Linux"):
		a.OS = "Linux"
	case strings.Contains(ua, "iPhone"):
		a.OS = "iOS"
	case strings.Contains(ua, "Android"):
		a.OS = "Android"
	}
	a.Mobile = strings.Contains(ua, "iPhone") || strings.Contains(ua, "Android")
	return a
}
