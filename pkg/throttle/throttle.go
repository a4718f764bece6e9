// Package throttle решает, пора ли повторить периодическое действие (например, отправить прогресс).
package throttle

import "time"

// Gate: политика ограничения частоты. Собственного состояния не хранит:
// момент последнего срабатывания принадлежит вызывающей стороне.
type Gate struct {
	Interval time.Duration
	Now      func() time.Time
}

// New создаёт Gate с интервалом и часами; nil now означает time.Now.
func New(interval time.Duration, now func() time.Time) Gate {
	return Gate{Interval: interval, Now: now}
}

// Due: чистая проверка: прошло ли с last не меньше Interval к моменту now.
func (g Gate) Due(last, now time.Time) bool {
	return now.Sub(last) >= g.Interval
}

// CanExecute сравнивает last с текущим временем часов Gate.
func (g Gate) CanExecute(last time.Time) bool {
	return g.Due(last, g.now())
}

func (g Gate) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}
