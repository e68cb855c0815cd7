package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// defaultPingTimeout bounds how long Ping waits for the daemon. Docker
// Desktop on macOS can take a few seconds to answer after wake-up.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker SDK client. Callers must Close it.
//
//	c, err := docker.NewClient()
//	if err != nil { ... }
//	defer c.Close()
//	if err := c.Ping(ctx); err != nil { ... }
type Client struct {
	inner *client.Client
}

// NewClient connects to the daemon named by DOCKER_HOST, or to the first
// platform default socket that exists. Errors are CLIErrors with
// ExitDockerNotRunning.
func NewClient() (*Client, error) {
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return newClientWithHost(host)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "Docker socket not found", err)
	}
	return newClientWithHost(host)
}

func newClientWithHost(host string) (*Client, error) {
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}
	return &Client{inner: c}, nil
}

// detectDockerHost returns the daemon address for the current platform.
// Only socket existence is checked here; Ping checks that it answers.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		candidates := []string{"/var/run/docker.sock"}
		if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
			// rootless Docker
			candidates = append(candidates, filepath.Join(dir, "docker.sock"))
		}
		return detectUnixSocket(candidates)

	case "darwin":
		candidates := []string{"/var/run/docker.sock"}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".docker", "run", "docker.sock"))
		}
		return detectUnixSocket(candidates)

	case "windows":
		// os.Stat does not work on named pipes; dial instead.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)
		}
		conn.Close()
		return "npipe://" + pipePath, nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectUnixSocket returns a unix:// URI for the first existing path.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of: %v (is Docker running?)", paths)
}

// Ping checks that the daemon answers within defaultPingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker daemon is not responding (is Docker running?)",
			err,
		)
	}
	return nil
}

// Close releases the client's connections. It is safe to call twice.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner exposes the SDK client for calls this package does not wrap.
func (c *Client) Inner() *client.Client {
	return c.inner
}
