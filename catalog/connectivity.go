package catalog

import (
	"context"
	"time"
)

// WatchConnectivity polls the backend health endpoint and calls notify on
// every transition, plus once with the initial state. The first probe runs
// immediately so the UI knows where it stands right after startup.
// Runs in its own goroutine until ctx is done.
func (c *Client) WatchConnectivity(ctx context.Context, interval time.Duration, notify func(online bool)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		known := false
		online := false
		for {
			ok := c.Healthy(ctx)
			if !known || ok != online {
				known = true
				online = ok
				c.logf("connectivity: online=%v", ok)
				notify(ok)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
