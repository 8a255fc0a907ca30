// Package peer tracks the nodes this node reconciles with and talks to them
// over HTTP.
package peer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/multiformats/go-multiaddr"
)

// ErrInvalidEndpoint is returned for peer addresses that cannot be turned
// into a base URL.
var ErrInvalidEndpoint = errors.New("invalid peer endpoint")

// Normalize turns "host:port", "http(s)://host:port" or a multiaddr such as
// "/ip4/10.0.0.2/tcp/5000" into a base URL without a trailing slash.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidEndpoint)
	}
	if strings.HasPrefix(raw, "/") {
		return fromMultiaddr(raw)
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: unsupported scheme %q", ErrInvalidEndpoint, raw, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidEndpoint, raw)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", fmt.Errorf("%w: %q: only scheme, host and port are allowed", ErrInvalidEndpoint, raw)
	}
	return u.Scheme + "://" + strings.ToLower(u.Host), nil
}

func fromMultiaddr(raw string) (string, error) {
	addr, err := multiaddr.NewMultiaddr(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, raw, err)
	}

	var host string
	for _, code := range []int{multiaddr.P_IP4, multiaddr.P_IP6, multiaddr.P_DNS4, multiaddr.P_DNS6, multiaddr.P_DNS} {
		if v, err := addr.ValueForProtocol(code); err == nil {
			host = v
			break
		}
	}
	if host == "" {
		return "", fmt.Errorf("%w: %q: no ip or dns component", ErrInvalidEndpoint, raw)
	}
	port, err := addr.ValueForProtocol(multiaddr.P_TCP)
	if err != nil {
		return "", fmt.Errorf("%w: %q: no tcp component", ErrInvalidEndpoint, raw)
	}
	return "http://" + net.JoinHostPort(strings.ToLower(host), port), nil
}

// Registry is the set of known peer base URLs. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[string]struct{})}
}

// Add normalises and registers every address. Nothing is registered if any
// address is invalid. It returns the full sorted peer list.
func (r *Registry) Add(addresses ...string) ([]string, error) {
	normalized := make([]string, 0, len(addresses))
	for _, raw := range addresses {
		endpoint, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, endpoint)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, endpoint := range normalized {
		r.peers[endpoint] = struct{}{}
	}
	return r.listLocked(), nil
}

// List returns the peers in lexicographic order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

func (r *Registry) listLocked() []string {
	out := make([]string, 0, len(r.peers))
	for endpoint := range r.peers {
		out = append(out, endpoint)
	}
	sort.Strings(out)
	return out
}
