package scanner

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPTRServer(t *testing.T, records map[string]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(r)
			q := r.Question[0]
			if name, ok := records[q.Name]; ok && q.Qtype == dns.TypePTR {
				m.Answer = append(m.Answer, &dns.PTR{
					Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 60},
					Ptr: name,
				})
			}
			_ = w.WriteMsg(m)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("dns server did not start")
	}
	return pc.LocalAddr().String()
}

func TestPTRResolver(t *testing.T) {
	addr := startPTRServer(t, map[string]string{
		"5.0.0.10.in-addr.arpa.": "printer.lan.",
	})

	r, err := NewPTRResolver(addr, time.Second)
	require.NoError(t, err)

	name, err := r.LookupHostname(context.Background(), "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "printer.lan", name)

	name, err = r.LookupHostname(context.Background(), "10.0.0.6")
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = r.LookupHostname(context.Background(), "not-an-ip")
	assert.Error(t, err)
}
