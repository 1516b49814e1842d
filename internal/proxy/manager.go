package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// Manager rotates outbound requests across a fixed set of proxies.
type Manager struct {
	proxies    []*url.URL
	mu         sync.Mutex
	proxyIndex int
}

// NewManager parses the given proxy URLs. An empty list disables proxying.
func NewManager(rawProxies []string) (*Manager, error) {
	m := &Manager{}
	for _, raw := range rawProxies {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", raw)
		}
		m.proxies = append(m.proxies, u)
	}
	return m, nil
}

// Enabled reports whether any proxy is configured.
func (m *Manager) Enabled() bool {
	return len(m.proxies) > 0
}

// Next returns the next proxy, rotating sequentially.
func (m *Manager) Next() *url.URL {
	if len(m.proxies) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.proxies[m.proxyIndex]
	m.proxyIndex = (m.proxyIndex + 1) % len(m.proxies)
	return p
}

// Proxy has the signature of http.Transport.Proxy.
func (m *Manager) Proxy(*http.Request) (*url.URL, error) {
	return m.Next(), nil
}
