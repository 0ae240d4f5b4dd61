package datefmt

import "time"

// Clock — источник текущего времени.
// Внедряется в сервисы и отчёты, чтобы тесты могли зафиксировать момент.
type Clock interface {
	Now() time.Time
}

// ClockFunc — адаптер функции к интерфейсу Clock.
type ClockFunc func() time.Time

// Now возвращает результат вызова функции.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock возвращает системные часы (UTC).
func SystemClock() Clock {
	return ClockFunc(func() time.Time { return time.Now().UTC() })
}

// FixedClock возвращает часы, всегда показывающие t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
