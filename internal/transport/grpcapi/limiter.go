package grpcapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdle     = 10 * time.Minute
	limiterMaxPeers = 10000
)

// peerLimiter keeps one token bucket per peer address.
type peerLimiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	peers map[string]*peerBucket
	now   func() time.Time
}

type peerBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newPeerLimiter(perSecond float64, burst int) *peerLimiter {
	if burst < 1 {
		burst = 1
	}
	return &peerLimiter{
		limit: rate.Limit(perSecond),
		burst: burst,
		peers: make(map[string]*peerBucket),
		now:   time.Now,
	}
}

func (p *peerLimiter) allow(peer string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	b, ok := p.peers[peer]
	if !ok {
		if len(p.peers) >= limiterMaxPeers {
			p.evict(now)
		}
		b = &peerBucket{lim: rate.NewLimiter(p.limit, p.burst)}
		p.peers[peer] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// evict drops peers idle for longer than limiterIdle. When none are, the
// least recently seen peer goes instead so the map stays bounded.
func (p *peerLimiter) evict(now time.Time) {
	var (
		oldest     string
		oldestSeen time.Time
		found      bool
		removed    bool
	)
	for k, b := range p.peers {
		if now.Sub(b.seen) > limiterIdle {
			delete(p.peers, k)
			removed = true
			continue
		}
		if !found || b.seen.Before(oldestSeen) {
			oldest, oldestSeen, found = k, b.seen, true
		}
	}
	if !removed && found {
		delete(p.peers, oldest)
	}
}
