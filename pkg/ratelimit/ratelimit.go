package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiters is one token bucket per client ip
type Limiters struct {
	ips   map[string]*ipLimiter
	lock  sync.Mutex
	limit rate.Limit
	burst int
}

type ipLimiter struct {
	limiter *rate.Limiter
	updated time.Time
}

func New(per time.Duration, burst int) *Limiters {

	if burst < 1 {
		burst = 1
	}

	return &Limiters{
		ips:   map[string]*ipLimiter{},
		limit: rate.Every(per),
		burst: burst,
	}
}

func (l *Limiters) GetLimiter(ip string) *rate.Limiter {

	l.lock.Lock()
	defer l.lock.Unlock()

	limiter, exists := l.ips[ip]
	if !exists {
		limiter = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.ips[ip] = limiter
	}

	// Touch IP
	limiter.updated = time.Now()

	return limiter.limiter
}

// Clean forgets ips not seen for an hour
func (l *Limiters) Clean() {
	l.clean(time.Now().Add(time.Hour * -1))
}

func (l *Limiters) clean(cutoff time.Time) {

	l.lock.Lock()
	defer l.lock.Unlock()

	for k, v := range l.ips {
		if v.updated.Before(cutoff) {
			delete(l.ips, k)
		}
	}
}

func (l *Limiters) Len() int {

	l.lock.Lock()
	defer l.lock.Unlock()

	return len(l.ips)
}
