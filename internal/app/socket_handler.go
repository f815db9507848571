package app

import (
	"context"
	"log"

	"github.com/pstuifzand/renderwatch/internal/socket"
)

// MessageSource delivers socket messages; *socket.Server implements it
type MessageSource interface {
	Messages() <-chan socket.Message
}

// Serve observes invocations arriving on the socket until ctx ends
func (d *Debugger) Serve(ctx context.Context, server MessageSource) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-server.Messages():
			d.handleSocketMessage(ctx, msg)
		}
	}
}

// handleSocketMessage processes messages received from the Unix socket
func (d *Debugger) handleSocketMessage(ctx context.Context, msg socket.Message) {
	switch msg.Command {
	case socket.CommandObserve:
		if msg.Invocation == nil {
			log.Printf("Observe command missing invocation")
			return
		}
		d.Observe(ctx, *msg.Invocation)
	case socket.CommandStatus:
		status := d.Status()
		log.Printf("Status requested: %s", status)
		if msg.ResponseChan != nil {
			msg.ResponseChan <- &socket.Response{Success: true, Message: status}
		}
	default:
		log.Printf("Unknown socket command: %s", msg.Command)
	}
}
