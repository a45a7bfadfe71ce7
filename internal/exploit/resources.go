package exploit

import (
	"context"
	"net"
	"time"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/toolexec"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Resources exposes what a module may use besides the target itself.
type Resources struct {
	Log    *logrus.Entry
	Caps   domain.Capabilities
	Config domain.ExploitConfig
	Params map[string]any
	Exec   toolexec.Runner
}

// Pacer spaces out attempts against one target.
type Pacer struct {
	lim *rate.Limiter
}

// NewPacer allows one attempt per gap. A zero gap never waits.
func NewPacer(gap time.Duration) *Pacer {
	if gap <= 0 {
		return &Pacer{}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(gap), 1)}
}

// Wait blocks until the next attempt is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.lim == nil {
		return ctx.Err()
	}
	return p.lim.Wait(ctx)
}

func (r Resources) ConnectTimeout() time.Duration {
	return orDefault(r.Config.ConnectTimeout, 5*time.Second)
}

func (r Resources) ReadTimeout() time.Duration {
	return orDefault(r.Config.ReadTimeout, 3*time.Second)
}

func (r Resources) HelperTimeout() time.Duration {
	return orDefault(r.Config.HelperTimeout, 10*time.Second)
}

// Dial opens a TCP connection to addr bounded by the connect timeout and ctx.
func (r Resources) Dial(ctx context.Context, addr string) (net.Conn, error) {
	d := net.Dialer{Timeout: r.ConnectTimeout()}
	return d.DialContext(ctx, "tcp", addr)
}

func orDefault(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
