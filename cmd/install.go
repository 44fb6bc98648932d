package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"driver-manager/core/reconcile"
	"driver-manager/feature/drivers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesConfirm bool

// installCmd runs the driver update pipeline in the foreground.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download and install every pending driver update",
	Long: `Searches the update service for driver updates, downloads and installs them,
then clears the caches and checks every device again.

Examples:
  # Interactive confirmation
  install

  # Non-interactive
  install --yes`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the installation (non-interactive)")
	RootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	l := rt.logger

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No drivers were installed.")
		return nil
	}

	err = rt.service.TriggerInstallAll(cmd.Context(), func(message string, percent int) {
		fmt.Printf("[%3d%%] %s\n", percent, message)
	})
	var installErr *reconcile.InstallError
	switch {
	case errors.As(err, &installErr):
		l.Error("Driver installation failed", zap.Int("exit_code", installErr.ExitCode))
		return err
	case err != nil:
		return fmt.Errorf("failed to install drivers: %w", err)
	}

	devices, err := rt.service.Devices(cmd.Context())
	if err != nil {
		l.Warn("Failed to enumerate devices after install", zap.Error(err))
	}
	printCheckReport(l, drivers.PassResult{
		Devices: devices,
		Summary: reconcile.Summarize(rt.service.Statuses()),
	})
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to install all pending driver updates: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
