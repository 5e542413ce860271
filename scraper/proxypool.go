package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/proxy"
)

// ProxyPool rotates requests across SOCKS5 exits so the blocked public
// endpoints see traffic from more than one address. Each proxy has a minimum
// reuse interval and goes on cooldown after a rate-limit response.
type ProxyPool struct {
	clients     []*http.Client
	hosts       []string
	index       atomic.Uint64
	minInterval time.Duration

	mu        sync.Mutex
	cooldowns map[int]time.Time
	lastUsed  map[int]time.Time
	stats     map[int]*proxyStats
}

type proxyStats struct {
	Successes int
	Failures  int
}

func NewProxyPool(proxyURLs []string) (*ProxyPool, error) {
	if len(proxyURLs) == 0 {
		return nil, errors.New("no proxy URLs provided")
	}

	p := &ProxyPool{
		minInterval: 30 * time.Second,
		cooldowns:   make(map[int]time.Time),
		lastUsed:    make(map[int]time.Time),
		stats:       make(map[int]*proxyStats),
	}

	seen := make(map[string]bool)
	for _, proxyURL := range proxyURLs {
		if seen[proxyURL] {
			continue
		}
		seen[proxyURL] = true

		client, host, err := socks5Client(proxyURL)
		if err != nil {
			return nil, err
		}
		p.clients = append(p.clients, client)
		p.hosts = append(p.hosts, host)
		p.stats[len(p.hosts)-1] = &proxyStats{}
	}

	slog.Info("proxy pool created", "count", len(p.clients), "hosts", p.hosts)
	return p, nil
}

func socks5Client(proxyURL string) (*http.Client, string, error) {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	if parsed.Scheme != "socks5" {
		return client, parsed.Host, nil
	}

	var auth *proxy.Auth
	if parsed.User != nil {
		password, _ := parsed.User.Password()
		auth = &proxy.Auth{User: parsed.User.Username(), Password: password}
	}

	dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
	if err != nil {
		return nil, "", err
	}
	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
	return client, parsed.Host, nil
}

// Next returns the next usable client, waiting out cooldowns when every proxy
// is busy.
func (p *ProxyPool) Next() (*http.Client, string) {
	n := len(p.clients)

	p.mu.Lock()
	for {
		now := time.Now()

		for attempt := 0; attempt < n; attempt++ {
			i := int((p.index.Add(1) - 1) % uint64(n))

			if until, ok := p.cooldowns[i]; ok && now.Before(until) {
				continue
			}
			if last, ok := p.lastUsed[i]; ok && now.Sub(last) < p.minInterval {
				continue
			}

			p.lastUsed[i] = now
			p.mu.Unlock()
			return p.clients[i], p.hosts[i]
		}

		var soonest time.Time
		for i := 0; i < n; i++ {
			availableAt := p.lastUsed[i].Add(p.minInterval)
			if until, ok := p.cooldowns[i]; ok && until.After(availableAt) {
				availableAt = until
			}
			if soonest.IsZero() || availableAt.Before(soonest) {
				soonest = availableAt
			}
		}

		if wait := time.Until(soonest); wait > 0 {
			p.mu.Unlock()
			slog.Debug("all proxies busy, waiting", "wait_ms", wait.Milliseconds())
			time.Sleep(wait)
			p.mu.Lock()
		}
	}
}

// MarkRateLimited puts a proxy on cooldown after an upstream 429.
func (p *ProxyPool) MarkRateLimited(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, h := range p.hosts {
		if h == host {
			p.cooldowns[i] = time.Now().Add(30 * time.Second)
			return
		}
	}
}

func (p *ProxyPool) MarkSuccess(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, h := range p.hosts {
		if h == host {
			p.stats[i].Successes++
			return
		}
	}
}

func (p *ProxyPool) MarkFailure(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, h := range p.hosts {
		if h == host {
			p.stats[i].Failures++
			return
		}
	}
}

// Stats returns per-host success and failure counts.
func (p *ProxyPool) Stats() map[string]proxyStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]proxyStats, len(p.hosts))
	for i, h := range p.hosts {
		out[h] = *p.stats[i]
	}
	return out
}
