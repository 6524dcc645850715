// ABOUTME: SSH-tunnelled SOCKS5 dialer for reaching a backend behind a jumpbox
// ABOUTME: Parses ssh+socks5://user@host:port?private-key=/path URLs

package client

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
)

// proxySpec is a parsed ssh+socks5 proxy URL.
type proxySpec struct {
	username string
	host     string
	keyPath  string
}

func parseProxyURL(allProxy string) (*proxySpec, error) {
	trimmed := strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}
	if proxyURL.Scheme != "socks5" {
		return nil, fmt.Errorf("unsupported proxy scheme %q (want ssh+socks5)", proxyURL.Scheme)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy url is missing a host")
	}

	queryMap, err := url.ParseQuery(proxyURL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy query params: %w", err)
	}

	keyPath := queryMap.Get("private-key")
	if keyPath == "" {
		return nil, fmt.Errorf("proxy url missing required 'private-key' query param")
	}

	spec := &proxySpec{host: proxyURL.Host, keyPath: keyPath}
	if proxyURL.User != nil {
		spec.username = proxyURL.User.Username()
	}
	return spec, nil
}

// ProxyDialer returns a dialer that tunnels connections through the SSH
// jumpbox described by allProxy. The SSH session is opened on first use.
func ProxyDialer(allProxy string) (DialContextFunc, error) {
	spec, err := parseProxyURL(allProxy)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(spec.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH private key %s: %w", spec.keyPath, err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		d := dialer
		mut.RUnlock()

		if d != nil {
			return d(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(spec.username, string(key), spec.host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}, nil
}
