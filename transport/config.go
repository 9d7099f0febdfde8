package transport

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout is the default for each of the Config timeouts.
const DefaultTimeout = 100 * time.Second

// Config is the HTTP transport configuration. Zero timeouts take
// DefaultTimeout.
type Config struct {
	// RequestTimeout bounds a whole request, including reading the body.
	RequestTimeout time.Duration
	// ConnectTimeout bounds establishing the TCP connection.
	ConnectTimeout time.Duration
	// ReadTimeout bounds waiting for the response headers.
	ReadTimeout time.Duration
	// TLS is used for https base addresses. Scanners commonly present
	// self-signed certificates.
	TLS *tls.Config
}

func (c Config) withDefaults() Config {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultTimeout
	}
	return c
}

// NewHTTPClient returns an *http.Client configured by cfg.
func NewHTTPClient(cfg Config) *http.Client {
	cfg = cfg.withDefaults()
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
	return &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSClientConfig:       cfg.TLS,
			TLSHandshakeTimeout:   cfg.ConnectTimeout,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}
