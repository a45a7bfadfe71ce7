package domain

// ProgressFunc receives scan progress in percent with a status line.
type ProgressFunc func(percent int, status string)

// Report clamps percent into 0..100 and forwards it. A nil func is a no-op.
func (f ProgressFunc) Report(percent int, status string) {
	if f == nil {
		return
	}
	f(max(0, min(100, percent)), status)
}

type SeekRepo interface {
	PutSeek(res SeekResult)
	GetSeek(scanID string) (SeekResult, bool)
}

type EnterRepo interface {
	PutEnter(res EnterResult)
	GetEnter(sessionID string) (EnterResult, bool)
}
