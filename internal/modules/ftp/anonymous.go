package ftp

import (
	"context"
	"fmt"
	"net/textproto"
	"strings"
	"time"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/exploit"
)

const ModuleID = "ftp_anonymous"

func Init() {
	exploit.Register(exploit.Descriptor{
		ID:          ModuleID,
		Name:        "FTP Anonymous Access",
		Services:    []string{"ftp"},
		Ports:       []uint16{21},
		Description: "Logs in as anonymous and prints the working directory when the server allows it.",
		Run:         runAnonymous,
	})
}

func runAnonymous(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) error {
	emit.Commandf("[>] Checking for anonymous FTP access")

	if err := anonymousLogin(ctx, target, res, emit); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.Log.WithError(err).Debug("FTP session failed")
		emit.Errorf("[!] FTP connection failed: %v", err)
	}
	return nil
}

func anonymousLogin(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) error {
	conn, err := res.Dial(ctx, target.HostPort.String())
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	tp := textproto.NewConn(conn)
	timeout := res.ConnectTimeout()

	_ = conn.SetDeadline(time.Now().Add(timeout))
	code, banner, err := readReply(tp)
	if err != nil {
		return err
	}
	emit.Outputf("    Banner: %s", banner)
	if code != 220 {
		emit.Errorf("[-] Server not ready: %s", banner)
		return nil
	}

	_, reply, err := exchange(tp, conn, timeout, "USER anonymous")
	if err != nil {
		return err
	}
	emit.Outputf("    USER: %s", reply)

	code, reply, err = exchange(tp, conn, timeout, "PASS anonymous@")
	if err != nil {
		return err
	}
	emit.Outputf("    PASS: %s", reply)

	if code == 230 {
		emit.Successf("[+] Anonymous FTP login SUCCESSFUL")
		_, pwd, err := exchange(tp, conn, timeout, "PWD")
		if err != nil {
			return err
		}
		emit.Outputf("    PWD: %s", pwd)
	} else {
		emit.Errorf("[-] Anonymous login rejected")
	}

	_ = tp.PrintfLine("QUIT")
	return nil
}

type deadliner interface {
	SetDeadline(time.Time) error
}

// exchange sends one command and reads its complete reply.
func exchange(tp *textproto.Conn, conn deadliner, timeout time.Duration, cmd string) (int, string, error) {
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if err := tp.PrintfLine("%s", cmd); err != nil {
		return 0, "", err
	}
	return readReply(tp)
}

// readReply consumes a possibly multi-line reply ("NNN-" continuation lines
// up to the closing "NNN ") and returns its code with the closing line.
func readReply(tp *textproto.Conn) (int, string, error) {
	code, msg, err := tp.ReadResponse(0)
	if err != nil {
		return 0, "", err
	}
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	return code, strings.TrimSpace(fmt.Sprintf("%d %s", code, msg)), nil
}
