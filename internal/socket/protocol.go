// Package socket lets other processes feed invocations to a running
// renderwatch over a Unix socket
package socket

import "github.com/pstuifzand/renderwatch/internal/model"

// Message represents a command sent to the running renderwatch instance
type Message struct {
	Command    string            `json:"command"`
	Invocation *model.Invocation `json:"invocation,omitempty"`

	// ResponseChan is set by the server for commands that answer with data
	ResponseChan chan *Response `json:"-"`
}

// Response represents the response from the server
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Command types
const (
	CommandObserve = "observe" // queue one invocation, answered immediately
	CommandStatus  = "status"  // answered by the consumer with a summary
)
