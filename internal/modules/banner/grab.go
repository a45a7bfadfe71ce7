package banner

import (
	"context"
	"io"
	"strings"
	"time"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/exploit"
)

const (
	maxBannerBytes = 4096
	maxHTTPLines   = 20
	httpProbe      = "HEAD / HTTP/1.0\r\n\r\n"
)

func Init() {
	exploit.Register(exploit.Descriptor{
		ID:          exploit.FallbackModuleID,
		Name:        "Service Banner Grab",
		Services:    []string{exploit.Wildcard},
		Description: "Reads whatever the service sends on connect, or the answer to an HTTP HEAD when it stays silent.",
		Run:         runGrab,
	})
}

func runGrab(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) error {
	emit.Commandf("[>] Grabbing banner from %s:%d", target.Host, target.Port)

	conn, err := res.Dial(ctx, target.HostPort.String())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		emit.Errorf("[!] Connection failed: %v", err)
		return nil
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	buf := make([]byte, maxBannerBytes)
	_ = conn.SetReadDeadline(time.Now().Add(res.ReadTimeout()))
	n, _ := conn.Read(buf)
	if n > 0 {
		for _, line := range splitLines(buf[:n]) {
			emit.Outputf("    %s", line)
		}
		emit.Successf("[+] Banner captured")
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	_ = conn.SetDeadline(time.Now().Add(res.ReadTimeout()))
	if _, err := io.WriteString(conn, httpProbe); err == nil {
		data, _ := io.ReadAll(io.LimitReader(conn, maxBannerBytes))
		if len(data) > 0 {
			lines := splitLines(data)
			for _, line := range lines[:min(len(lines), maxHTTPLines)] {
				emit.Outputf("    %s", line)
			}
			emit.Successf("[+] HTTP response captured")
			return nil
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	emit.Errorf("[-] No banner received")
	return nil
}

func splitLines(data []byte) []string {
	text := strings.TrimRight(strings.ToValidUTF8(string(data), "�"), "\r\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
