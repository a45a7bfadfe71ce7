// Package testutil provides loopback servers that imitate the services the
// exploit modules talk to.
package testutil

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// MockTCPServer accepts loopback connections and hands each to handler.
type MockTCPServer struct {
	listener net.Listener
	handler  func(net.Conn)
	wg       sync.WaitGroup
	closed   bool
	mu       sync.Mutex
}

// NewMockTCPServer creates a server that calls handler for each connection.
// A nil handler closes the connection without writing anything.
func NewMockTCPServer(handler func(net.Conn)) *MockTCPServer {
	if handler == nil {
		handler = silentHandler
	}
	return &MockTCPServer{handler: handler}
}

func silentHandler(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _ = io.Copy(io.Discard, conn)
}

// Start listens on a random loopback port.
func (s *MockTCPServer) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *MockTCPServer) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handler(conn)
		}()
	}
}

// Stop closes the listener and waits for handlers to return.
func (s *MockTCPServer) Stop() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

func (s *MockTCPServer) Addr() string {
	return s.listener.Addr().String()
}

func (s *MockTCPServer) Port() uint16 {
	return uint16(s.listener.Addr().(*net.TCPAddr).Port)
}

// NewBannerServer greets every client with banner and then waits for it to
// hang up.
func NewBannerServer(banner string) *MockTCPServer {
	return NewMockTCPServer(func(conn net.Conn) {
		defer conn.Close()
		_, _ = io.WriteString(conn, banner)
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _ = io.Copy(io.Discard, conn)
	})
}

// NewHTTPServer stays silent until it receives a request line, then answers
// with response and closes.
func NewHTTPServer(response string) *MockTCPServer {
	return NewMockTCPServer(func(conn net.Conn) {
		defer conn.Close()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if strings.TrimSpace(line) == "" {
				break
			}
		}
		_, _ = io.WriteString(conn, response)
	})
}

// FTPServer is a minimal control-channel FTP server. Greeting holds the
// lines of the 220 reply and defaults to a single vsFTPd line.
type FTPServer struct {
	*MockTCPServer
	AllowAnonymous bool
	Greeting       []string

	mu       sync.Mutex
	commands []string
}

func NewFTPServer(allowAnonymous bool) *FTPServer {
	s := &FTPServer{AllowAnonymous: allowAnonymous}
	s.MockTCPServer = NewMockTCPServer(s.serve)
	return s
}

// Commands returns the verbs received so far, in order.
func (s *FTPServer) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *FTPServer) serve(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	w := bufio.NewWriter(conn)
	reply := func(line string) {
		_, _ = w.WriteString(line + "\r\n")
		_ = w.Flush()
	}

	greeting := s.Greeting
	if len(greeting) == 0 {
		greeting = []string{"220 (vsFTPd 3.0.3)"}
	}
	for _, line := range greeting {
		reply(line)
	}
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		verb, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		verb = strings.ToUpper(verb)

		s.mu.Lock()
		s.commands = append(s.commands, verb)
		s.mu.Unlock()

		switch verb {
		case "USER":
			reply("331 Please specify the password.")
		case "PASS":
			if s.AllowAnonymous {
				reply("230 Login successful.")
			} else {
				reply("530 Login incorrect.")
			}
		case "PWD":
			reply(`257 "/" is the current directory`)
		case "QUIT":
			reply("221 Goodbye.")
			return
		default:
			reply("500 Unknown command.")
		}
	}
}
