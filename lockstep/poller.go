package lockstep

import (
	"sync"
	"time"

	"github.com/watchroom/watchroom/constant"
)

// Poller paces seek detection. It only produces ticks; the owner of the Controller
// receives from C and calls Controller.Poll on its own goroutine.
type Poller struct {
	C <-chan time.Time

	ticker *time.Ticker
	once   sync.Once
}

// NewPoller starts ticking at interval, or at the default cadence when interval is not positive.
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval, _ = time.ParseDuration(constant.DefaultPollInterval)
	}

	ticker := time.NewTicker(interval)
	return &Poller{C: ticker.C, ticker: ticker}
}

// Stop ends the ticks. It is safe to call more than once.
func (p *Poller) Stop() {
	p.once.Do(p.ticker.Stop)
}
