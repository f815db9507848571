package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Server represents a Unix socket server for accepting invocations
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewServer creates a new Unix socket server
func NewServer(pid int) (*Server, error) {
	dir := socketDir()

	// Create socket directory if it doesn't exist
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, socketName(pid))

	// Remove existing socket if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	log.Printf("Socket server listening on: %s", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 64),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins accepting connections on the socket
func (s *Server) Start() {
	go s.acceptLoop()
}

// acceptLoop continuously accepts new connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("Error accepting connection: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection answers every message on a connection until the client
// closes it
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			if err != io.EOF {
				log.Printf("Error decoding message: %v", err)
				encoder.Encode(Response{
					Success: false,
					Message: fmt.Sprintf("Invalid message format: %v", err),
				})
			}
			return
		}

		response := s.dispatch(msg)
		if err := encoder.Encode(response); err != nil {
			log.Printf("Error writing response: %v", err)
			return
		}
	}
}

func (s *Server) dispatch(msg Message) *Response {
	switch msg.Command {
	case "":
		return &Response{Success: false, Message: "Missing command field"}
	case CommandObserve:
		if msg.Invocation == nil || msg.Invocation.Instance == "" {
			return &Response{Success: false, Message: "observe needs an invocation with an instance"}
		}
	case CommandStatus:
		msg.ResponseChan = make(chan *Response, 1)
	default:
		return &Response{Success: false, Message: fmt.Sprintf("Unknown command %q", msg.Command)}
	}

	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		return &Response{Success: false, Message: "Server is shutting down"}
	}

	if msg.ResponseChan == nil {
		return &Response{Success: true, Message: "Command queued"}
	}

	select {
	case response := <-msg.ResponseChan:
		return response
	case <-time.After(10 * time.Second):
		return &Response{Success: false, Message: "Command timed out"}
	case <-s.stopChan:
		return &Response{Success: false, Message: "Server is shutting down"}
	}
}

// Messages returns the channel for receiving messages
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and cleans up resources. It is safe to call more
// than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.listener != nil {
			s.listener.Close()
		}
		// Clean up socket file
		if s.socketPath != "" {
			os.Remove(s.socketPath)
		}
		log.Printf("Socket server stopped")
	})
}
