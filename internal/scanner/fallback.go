package scanner

import (
	"context"
	"errors"

	"bytemomo/harpoon/internal/domain"

	"github.com/sirupsen/logrus"
)

// FallbackScanner prefers Primary and, when it reports ErrNativeToolFailed,
// either reruns the request on Secondary or returns the degraded result.
type FallbackScanner struct {
	Log       *logrus.Entry
	Primary   Scanner
	Secondary Scanner
	Fallback  bool
}

func (f *FallbackScanner) Type() string { return ScannerTypeFallback }

func (f *FallbackScanner) Scan(ctx context.Context, req Request, progress domain.ProgressFunc) (domain.SeekResult, error) {
	res, err := f.Primary.Scan(ctx, req, progress)
	if err == nil || !errors.Is(err, ErrNativeToolFailed) {
		return res, err
	}

	log := f.Log.WithError(err).WithField("scanner", f.Primary.Type())
	if !f.Fallback || f.Secondary == nil {
		log.Warn("Native scan failed, returning degraded result")
		return res, nil
	}

	log.WithField("fallback", f.Secondary.Type()).Warn("Native scan failed, falling back")
	return f.Secondary.Scan(ctx, req, progress)
}
