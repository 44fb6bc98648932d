package windows

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"driver-manager/core/reconcile"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// maxLineBytes bounds a single line of collaborator output.
const maxLineBytes = 10 * 1024 * 1024

// Runner executes external commands.
type Runner interface {
	// Output runs the command to completion and returns its decoded stdout.
	// A start failure or non-zero exit wraps reconcile.ErrIO.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Stream runs the command and hands every decoded stdout line to onLine as
	// it arrives. It returns the exit code; err is set only when the command
	// could not start or did not exit on its own.
	Stream(ctx context.Context, onLine func(line string), name string, args ...string) (int, error)
}

// ExecRunner runs commands with os/exec and decodes their output from the
// console code page.
type ExecRunner struct {
	enc encoding.Encoding
}

// NewExecRunner creates a runner decoding output with enc. A nil encoding
// selects GBK (code page 936).
func NewExecRunner(enc encoding.Encoding) *ExecRunner {
	if enc == nil {
		enc = simplifiedchinese.GBK
	}
	return &ExecRunner{enc: enc}
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	raw, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			msg, _ := r.decode(exitErr.Stderr)
			return "", fmt.Errorf("%s: %w: %v: %s", name, reconcile.ErrIO, err, strings.TrimSpace(msg))
		}
		return "", fmt.Errorf("%s: %w: %v", name, reconcile.ErrIO, err)
	}
	out, err := r.decode(raw)
	if err != nil {
		return "", fmt.Errorf("%s: decoding output: %w", name, reconcile.ErrParse)
	}
	return out, nil
}

// Stream implements Runner.
func (r *ExecRunner) Stream(ctx context.Context, onLine func(line string), name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("%s: %w: %v", name, reconcile.ErrIO, err)
	}
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("%s: %w: %v", name, reconcile.ErrIO, err)
	}

	scanner := bufio.NewScanner(transform.NewReader(stdout, r.enc.NewDecoder()))
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			onLine(line)
		}
	}
	if scanner.Err() != nil {
		_, _ = io.Copy(io.Discard, stdout)
	}

	err = cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("%s: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("%s: %w: %v: %s", name, reconcile.ErrIO, err, strings.TrimSpace(stderr.String()))
}

func (r *ExecRunner) decode(raw []byte) (string, error) {
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), r.enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
