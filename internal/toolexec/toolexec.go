// Package toolexec runs the external helpers the exploit modules fall back
// to when no in-process implementation is available.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Result is the captured outcome of a finished helper.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a helper binary. Implementations must kill the process when
// ctx ends.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error)
}

// Exec runs helpers with os/exec.
type Exec struct{}

// Run waits for the helper to exit. A non-zero exit is reported through
// Result.ExitCode; err is set only when the helper could not start or was
// killed by the timeout or ctx.
func (Exec) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s: %w", name, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("error running %s: %w", name, err)
	}
	return res, nil
}

// SSHPassArgs builds an sshpass invocation that logs in and runs id.
func SSHPassArgs(user, password, host string, port uint16) []string {
	return []string{
		"-p", password,
		"ssh",
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		"-o", "ConnectTimeout=5",
		"-p", strconv.Itoa(int(port)),
		user + "@" + host,
		"id",
	}
}

// PlinkArgs builds the equivalent batch-mode plink invocation.
func PlinkArgs(user, password, host string, port uint16) []string {
	return []string{
		"-ssh", "-batch",
		"-P", strconv.Itoa(int(port)),
		"-l", user,
		"-pw", password,
		host,
		"id",
	}
}

// SMBClientListArgs lists shares anonymously.
func SMBClientListArgs(host string, port uint16) []string {
	return []string{"-L", "//" + host, "-N", "-p", strconv.Itoa(int(port))}
}
