package engine

import "fmt"

// QuotaEnforcer caps the number of statements a single run may produce.
//
// The generation loop is unguarded by default: streams that never advance
// time loop forever. A part configured with WithMaxStatements gets one
// enforcer per run, checked before each statement is appended.
type QuotaEnforcer struct {
	max     int
	current int
}

// NewQuotaEnforcer creates an enforcer. A max of 0 or less never trips.
func NewQuotaEnforcer(max int) *QuotaEnforcer {
	return &QuotaEnforcer{max: max}
}

// Check counts one more statement and reports a GenerationError when the
// cap is exceeded.
func (q *QuotaEnforcer) Check(part string) error {
	q.current++
	if q.max > 0 && q.current > q.max {
		return &GenerationError{
			Code:    ErrCodeQuotaExceeded,
			Message: fmt.Sprintf("part exceeded max statements (%d > %d)", q.current, q.max),
			Part:    part,
			Step:    q.current - 1,
		}
	}
	return nil
}

// Current returns the number of statements counted so far.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// Max returns the configured cap.
func (q *QuotaEnforcer) Max() int {
	return q.max
}
