package socket

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pstuifzand/renderwatch/internal/model"
)

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
	timeout    time.Duration
}

// FindRunningInstance finds the socket path for a running renderwatch
// instance. Returns the socket path and PID, or an error if not found.
func FindRunningInstance() (string, int, error) {
	dir := socketDir()

	// Look for socket files
	var sockets []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Ignore errors, directory might not exist
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), socketPrefix) && strings.HasSuffix(d.Name(), socketSuffix) {
			sockets = append(sockets, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	if len(sockets) == 0 {
		return "", 0, fmt.Errorf("no running renderwatch instance found")
	}

	// If multiple sockets, use the most recent one
	socketPath := sockets[0]
	if len(sockets) > 1 {
		var newestTime time.Time
		socketPath = ""
		for _, sock := range sockets {
			info, err := os.Stat(sock)
			if err != nil {
				continue
			}
			if info.ModTime().After(newestTime) {
				newestTime = info.ModTime()
				socketPath = sock
			}
		}
		if socketPath == "" {
			return "", 0, fmt.Errorf("no accessible socket found")
		}
	}

	return socketPath, pidFromSocket(socketPath), nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	// Verify socket exists
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	responses, err := c.SendAll([]Message{msg})
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// SendAll sends several messages over one connection and returns the
// responses in order
func (c *Client) SendAll(msgs []Message) ([]*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	encoder := json.NewEncoder(conn)
	decoder := json.NewDecoder(conn)

	responses := make([]*Response, 0, len(msgs))
	for _, msg := range msgs {
		conn.SetDeadline(time.Now().Add(c.timeout))

		if err := encoder.Encode(msg); err != nil {
			return responses, fmt.Errorf("failed to send message: %w", err)
		}

		var response Response
		if err := decoder.Decode(&response); err != nil {
			return responses, fmt.Errorf("failed to receive response: %w", err)
		}
		responses = append(responses, &response)
	}

	return responses, nil
}

// SendObserve is a convenience method to send an observe command
func (c *Client) SendObserve(inv model.Invocation) (*Response, error) {
	return c.Send(Message{Command: CommandObserve, Invocation: &inv})
}

// Status asks the running instance for a summary
func (c *Client) Status() (*Response, error) {
	return c.Send(Message{Command: CommandStatus})
}
