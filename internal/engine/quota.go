package engine

import "fmt"

// dropQuota counts records skipped under WithDropOnError and enforces the
// WithMaxDropped limit. A limit of zero or less means unlimited.
type dropQuota struct {
	max     int
	dropped int
}

// Check records one more dropped record and returns a QUOTA_EXCEEDED
// error once the count passes the limit.
func (q *dropQuota) Check(line int) error {
	q.dropped++
	if q.max > 0 && q.dropped > q.max {
		return &RuntimeError{
			Code:    ErrCodeQuotaExceeded,
			Message: fmt.Sprintf("dropped records exceeded limit (%d > %d)", q.dropped, q.max),
			Line:    line,
		}
	}
	return nil
}
