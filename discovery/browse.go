package discovery

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/pkg/errors"
)

// DefaultTimeout is how long Browse listens when Options.Timeout is zero.
const DefaultTimeout = 3 * time.Second

// Options configures Browse.
type Options struct {
	Timeout time.Duration
	// Domain defaults to "local.".
	Domain string
	// Secure also browses for _uscans._tcp.
	Secure bool
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Domain == "" {
		o.Domain = "local."
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Browse listens for scanner advertisements until the timeout passes or
// ctx is done, and returns the scanners found sorted by instance name.
func Browse(ctx context.Context, opts Options) ([]Scanner, error) {
	opts = opts.withDefaults()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	services := []string{ServiceHTTP}
	if opts.Secure {
		services = append(services, ServiceHTTPS)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	var errs []error
	found := map[string]Scanner{}
	for _, service := range services {
		// A resolver owns its sockets, so each browse gets its own.
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, errors.Wrap(err, "mdns resolver")
		}
		entries := make(chan *zeroconf.ServiceEntry)
		if err := resolver.Browse(ctx, service, opts.Domain, entries); err != nil {
			mu.Lock()
			errs = append(errs, errors.Wrapf(err, "browse %s", service))
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			collect(entries, opts.Logger, func(s Scanner) {
				mu.Lock()
				defer mu.Unlock()
				found[key(s)] = s
			})
		}()
	}
	wg.Wait()

	if len(found) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}
	out := make([]Scanner, 0, len(found))
	for _, s := range found {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Instance != out[j].Instance {
			return out[i].Instance < out[j].Instance
		}
		return !out[i].Secure && out[j].Secure
	})
	return out, nil
}

// collect reads entries until the channel is closed.
func collect(entries <-chan *zeroconf.ServiceEntry, logger *slog.Logger, add func(Scanner)) {
	for e := range entries {
		if e == nil {
			continue
		}
		s := ScannerFromEntry(e)
		logger.Debug("escl scanner found", "instance", s.Instance, "url", s.BaseURL(), "uuid", s.UUID)
		add(s)
	}
}

func key(s Scanner) string {
	if s.Secure {
		return "s:" + s.Instance
	}
	return "p:" + s.Instance
}
