package telemetry

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	probeDialTimeout    = time.Second
	probeMaxElapsedTime = 3 * time.Second
)

// probeCollector verifies the collector endpoint accepts TCP connections,
// retrying briefly with exponential backoff to ride out a collector that is
// still starting. Better to fail assembly here than to silently drop all
// remote telemetry.
func probeCollector(endpoint string) error {
	addr, err := probeAddr(endpoint)
	if err != nil {
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxElapsedTime = probeMaxElapsedTime

	dial := func() error {
		conn, err := net.DialTimeout("tcp", addr, probeDialTimeout)
		if err != nil {
			return err
		}
		return conn.Close()
	}

	if err := backoff.Retry(dial, policy); err != nil {
		return fmt.Errorf("telemetry: cannot reach collector at %s, is it running? %w", addr, err)
	}
	return nil
}

// probeAddr reduces an endpoint ("host:port" or URL) to a dialable address.
func probeAddr(endpoint string) (string, error) {
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
	}

	if _, _, err := net.SplitHostPort(host); err != nil {
		return "", fmt.Errorf("telemetry: collector endpoint %q is not host:port or a URL: %w", endpoint, err)
	}
	return host, nil
}
