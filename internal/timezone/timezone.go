package timezone

import (
	"errors"
	"strings"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

var ErrInvalidDateTime = errors.New("invalid date/time")

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DayBounds devolve [meia-noite, próxima meia-noite) do dia de t no fuso do salão.
// AddDate mantém o limite correto em dias com troca de horário de verão.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// At monta o horário "offset" depois da meia-noite do dia de day.
func At(day time.Time, offset time.Duration, loc *time.Location) time.Time {
	start, _ := DayBounds(day, loc)
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return time.Date(start.Year(), start.Month(), start.Day(), h, m, 0, 0, loc)
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t, nil
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime aceita ISO 8601 com offset (RFC3339) ou horário de parede
// sem offset, que é interpretado no fuso do salão.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDateTime
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}
