package windows

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"driver-manager/core/reconcile"

	"go.uber.org/zap"
)

// DefaultInstallTimeout bounds one install pipeline run.
const DefaultInstallTimeout = 30 * time.Minute

const installScript = `try {
$session = New-Object -ComObject Microsoft.Update.Session
$searcher = $session.CreateUpdateSearcher()
Write-Host "Searching..."
$result = $searcher.Search("IsInstalled=0 and Type='Driver'")
if ($result.Updates.Count -eq 0) { Write-Host "NoUpdates"; exit 0 }
Write-Host "Found:$($result.Updates.Count)"
$toDownload = New-Object -ComObject Microsoft.Update.UpdateColl
foreach ($update in $result.Updates) { if (!$update.IsDownloaded) { [void]$toDownload.Add($update) } }
if ($toDownload.Count -gt 0) {
  Write-Host "Downloading"
  $downloader = $session.CreateUpdateDownloader()
  $downloader.Updates = $toDownload
  [void]$downloader.Download()
}
Write-Host "Installing"
$toInstall = New-Object -ComObject Microsoft.Update.UpdateColl
foreach ($update in $result.Updates) { if ($update.IsDownloaded) { [void]$toInstall.Add($update) } }
if ($toInstall.Count -gt 0) {
  $installer = $session.CreateUpdateInstaller()
  $installer.Updates = $toInstall
  $installResult = $installer.Install()
  Write-Host "Completed:$($installResult.ResultCode)"
}
} catch { Write-Host "Error:$_"; exit 1 }`

var foundPattern = regexp.MustCompile(`Found:(\d+)`)

// Installer downloads and installs every pending driver update through the
// Windows Update agent.
type Installer struct {
	runner  Runner
	timeout time.Duration
	logger  *zap.Logger
}

var _ reconcile.Installer = (*Installer)(nil)

// NewInstaller creates an installer. A non-positive timeout selects DefaultInstallTimeout.
func NewInstaller(runner Runner, timeout time.Duration, logger *zap.Logger) *Installer {
	if timeout <= 0 {
		timeout = DefaultInstallTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{runner: runner, timeout: timeout, logger: logger}
}

// RunInstallPipeline runs the search, download and install script and maps
// its output markers to progress. A non-zero exit returns *reconcile.InstallError.
func (i *Installer) RunInstallPipeline(ctx context.Context, onProgress reconcile.ProgressFunc) error {
	if onProgress == nil {
		onProgress = func(string, int) {}
	}
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	onProgress("Searching for driver updates", 10)

	code, err := i.runner.Stream(ctx, func(line string) {
		i.logger.Debug("Install output", zap.String("line", line))
		if strings.HasPrefix(line, "Error:") {
			i.logger.Error("Install script reported an error", zap.String("line", line))
			return
		}
		if msg, pct, ok := progressFor(line); ok {
			onProgress(msg, pct)
		}
	}, "powershell", "-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", installScript)

	if err != nil {
		return &reconcile.InstallError{ExitCode: -1, Err: err}
	}
	if code != 0 {
		return &reconcile.InstallError{ExitCode: code}
	}

	onProgress("Driver update complete", 100)
	return nil
}

// progressFor maps one script output line to a progress message.
func progressFor(line string) (string, int, bool) {
	switch {
	case strings.Contains(line, "Searching"):
		return "Searching for driver updates", 20, true
	case strings.Contains(line, "Found:"):
		count := "0"
		if m := foundPattern.FindStringSubmatch(line); m != nil {
			count = m[1]
		}
		return fmt.Sprintf("Found %s driver updates", count), 30, true
	case strings.Contains(line, "NoUpdates"):
		return "No driver updates available", 100, true
	case strings.Contains(line, "Downloading"):
		return "Downloading drivers", 50, true
	case strings.Contains(line, "Installing"):
		return "Installing drivers", 70, true
	case strings.Contains(line, "Completed"):
		return "Driver installation finished", 100, true
	}
	return "", 0, false
}
