package testfixtures

import (
	"sync"
	"time"
)

// ReferenceTime é o "agora" padrão dos testes: segunda, 19/10/2026, 07:00 em São Paulo.
func ReferenceTime() time.Time {
	return time.Date(2026, 10, 19, 7, 0, 0, 0, SalonLocation())
}

func SalonLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

// Clock é uma fonte de tempo controlável.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
