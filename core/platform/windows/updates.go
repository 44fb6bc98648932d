package windows

import (
	"context"
	"fmt"
	"strings"

	"driver-manager/core/reconcile"

	"go.uber.org/zap"
)

const searchScript = `try { $s = New-Object -ComObject Microsoft.Update.Session; ` +
	`$r = $s.CreateUpdateSearcher().Search("IsInstalled=0 and Type='Driver'"); ` +
	`$r.Updates | ForEach-Object { $_.Title } } catch { }`

// UpdateSource lists pending driver updates offered by Windows Update.
type UpdateSource struct {
	runner Runner
	logger *zap.Logger
}

var _ reconcile.UpdateSource = (*UpdateSource)(nil)

// NewUpdateSource creates a Windows Update backed source.
func NewUpdateSource(runner Runner, logger *zap.Logger) *UpdateSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateSource{runner: runner, logger: logger}
}

// FetchPendingUpdateTitles returns one title per non-blank output line.
// The search can take minutes, so callers bound it through ctx.
func (s *UpdateSource) FetchPendingUpdateTitles(ctx context.Context) ([]string, error) {
	out, err := s.runner.Output(ctx, "powershell",
		"-NoProfile", "-NonInteractive", "-Command", searchScript)
	if err != nil {
		return nil, fmt.Errorf("searching windows update: %w", err)
	}

	titles := []string{}
	for _, line := range strings.Split(out, "\n") {
		if title := strings.TrimSpace(line); title != "" {
			titles = append(titles, title)
		}
	}

	s.logger.Debug("Windows Update search finished", zap.Int("updates", len(titles)))
	return titles, nil
}
