package sensors

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultNvidiaTimeout bounds a single nvidia-smi invocation. The call runs
// in-line on the tick path, so it must stay well below the poll interval.
const DefaultNvidiaTimeout = time.Second

// nvidiaQuery returns one raw value per requested field for the first GPU.
type nvidiaQuery func(ctx context.Context, fields []string) ([]string, error)

type nvidiaSmiExec struct {
	binPath string
	timeout time.Duration
}

func (e *nvidiaSmiExec) query(ctx context.Context, fields []string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binPath,
		"--query-gpu="+strings.Join(fields, ","),
		"--format=csv,noheader,nounits",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("'%s' timed out after %v", e.binPath, e.timeout)
		}
		return nil, fmt.Errorf("'%s' execution failed: %w: %s", e.binPath, err, strings.TrimSpace(stderr.String()))
	}

	return parseNvidiaCSV(out, len(fields))
}

// parseNvidiaCSV reads the first line of nvidia-smi CSV output.
func parseNvidiaCSV(out []byte, n int) ([]string, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != n {
			return nil, fmt.Errorf("expected %d fields, got %d in %q", n, len(parts), line)
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
	return nil, errors.New("no GPU reported")
}

// parseNvidiaValue converts a raw field, rejecting "[N/A]" and friends.
func parseNvidiaValue(raw string) (float64, bool) {
	if raw == "" || strings.HasPrefix(raw, "[") {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
