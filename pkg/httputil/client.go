// Package httputil provides the shared HTTP client configuration used by
// the asset resolver and the generation client.
package httputil

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Options configures the HTTP client returned by New.
type Options struct {
	// Timeout bounds an entire request including body read.
	// Generation calls can take minutes; asset probes should be short.
	Timeout time.Duration

	// PreferIPv4 forces tcp4 dialing. Some residential networks resolve
	// AAAA records for hosts they cannot actually reach.
	PreferIPv4 bool
}

// New builds an *http.Client with a tuned transport.
// A zero Timeout defaults to 60 seconds.
func New(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	dialer := &net.Dialer{
		Timeout:   15 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if opts.PreferIPv4 {
				return dialer.DialContext(ctx, "tcp4", addr)
			}
			return dialer.DialContext(ctx, network, addr)
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
