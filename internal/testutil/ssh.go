package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net"

	"golang.org/x/crypto/ssh"
)

// SSHServer accepts password logins for a fixed set of users and answers any
// exec request with the configured id output.
type SSHServer struct {
	*MockTCPServer
	config *ssh.ServerConfig
	// Users maps a username to its password.
	Users map[string]string
	// IDOutput is written back for every exec request.
	IDOutput string
}

func NewSSHServer(users map[string]string, idOutput string) (*SSHServer, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("host signer: %w", err)
	}

	s := &SSHServer{Users: users, IDOutput: idOutput}
	s.config = &ssh.ServerConfig{
		PasswordCallback: func(meta ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if want, ok := s.Users[meta.User()]; ok && want == string(pass) {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", meta.User())
		},
	}
	s.config.AddHostKey(signer)
	s.MockTCPServer = NewMockTCPServer(s.serve)
	return s, nil
}

func (s *SSHServer) serve(conn net.Conn) {
	defer conn.Close()
	sconn, chans, reqs, err := ssh.NewServerConn(conn, s.config)
	if err != nil {
		return
	}
	defer sconn.Close()
	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "session only")
			continue
		}
		ch, requests, err := nc.Accept()
		if err != nil {
			continue
		}
		go func() {
			defer ch.Close()
			for req := range requests {
				if req.Type != "exec" {
					_ = req.Reply(false, nil)
					continue
				}
				_ = req.Reply(true, nil)
				_, _ = ch.Write([]byte(s.IDOutput + "\n"))
				_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{0}))
				return
			}
		}()
	}
}
