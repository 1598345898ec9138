package domain

import "time"

// Clock отдаёт текущее время. В тестах подменяется фиксированным.
type Clock interface {
	Now() time.Time
}

// SystemClock отдаёт time.Now.
type SystemClock struct{}

// Now возвращает текущее время.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock всегда возвращает одно и то же время.
type FixedClock time.Time

// Now возвращает зафиксированное время.
func (c FixedClock) Now() time.Time { return time.Time(c) }
