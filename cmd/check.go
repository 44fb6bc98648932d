package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"driver-manager/core/reconcile"
	"driver-manager/feature/drivers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkJSON    bool
	checkWait    bool
	checkTimeout time.Duration
)

// checkCmd runs one bulk reconciliation of every device.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the driver status of every device",
	Long: `Enumerates the devices of this workstation and reconciles them against the
installed driver catalog and the pending driver updates.

The first result uses whatever update titles are cached. With --wait the
command also waits for the update lookup and prints the final result.`,
	RunE: runCheck,
}

// deviceCmd runs the authoritative check of a single device.
var deviceCmd = &cobra.Command{
	Use:   "device <id>",
	Short: "Check the driver status of one device",
	Long:  `Waits for the pending update lookup and prints the status of one device (e.g. gpu-0).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		ds, err := rt.service.CheckDevice(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to check device: %w", err)
		}
		return printJSON(ds)
	},
}

// candidatesCmd explains how a device resolves against the driver catalog.
var candidatesCmd = &cobra.Command{
	Use:   "candidates <id>",
	Short: "Show the catalog entries ranked for one device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		ex, err := rt.service.Candidates(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to explain device: %w", err)
		}
		return printJSON(ex)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the full result as JSON")
	checkCmd.Flags().BoolVar(&checkWait, "wait", false, "Wait for the update lookup and print the final result")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "Upper bound for the whole check")
	deviceCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "Upper bound for the device check")

	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(deviceCmd)
	RootCmd.AddCommand(candidatesCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	l := rt.logger

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	l.Info("Starting driver check", zap.String("platform", rt.platform))

	final := make(chan map[string]reconcile.DriverStatus, 1)
	res, err := rt.service.CheckAll(ctx, func(statuses map[string]reconcile.DriverStatus) {
		final <- statuses
	})
	if err != nil {
		return fmt.Errorf("failed to check drivers: %w", err)
	}

	if checkWait {
		res = awaitFinal(ctx, l, res, final)
	}

	if checkJSON {
		return printJSON(res)
	}
	printCheckReport(l, res)
	return nil
}

// awaitFinal replaces res with the final pass once it arrives. A final pass
// that settled before Pending was read is already buffered in final.
func awaitFinal(ctx context.Context, l *zap.Logger, res drivers.PassResult, final <-chan map[string]reconcile.DriverStatus) drivers.PassResult {
	select {
	case statuses := <-final:
		return finalResult(res.Devices, statuses)
	default:
	}
	if !res.Pending {
		return res
	}

	l.Info("Waiting for the pending update lookup")
	select {
	case statuses := <-final:
		return finalResult(res.Devices, statuses)
	case <-ctx.Done():
		l.Warn("Update lookup did not settle, printing the initial result", zap.Error(ctx.Err()))
		return res
	}
}

// finalResult pairs the final statuses with the devices of the initial result.
func finalResult(initial []drivers.DeviceStatus, statuses map[string]reconcile.DriverStatus) drivers.PassResult {
	out := drivers.PassResult{Summary: reconcile.Summarize(statuses)}
	for _, ds := range initial {
		if st, ok := statuses[ds.Device.ID]; ok {
			ds.Driver = st
		}
		out.Devices = append(out.Devices, ds)
	}
	return out
}

// printCheckReport prints a formatted check report using logger.
func printCheckReport(l *zap.Logger, res drivers.PassResult) {
	s := res.Summary
	l.Info("Driver report",
		zap.Int("total", s.Total),
		zap.Int("ok", s.OK),
		zap.Int("outdated", s.Outdated),
		zap.Int("missing", s.Missing),
		zap.Int("unknown", s.Unknown),
		zap.Int("updates_available", s.UpdatesAvailable),
		zap.Bool("pending", res.Pending),
	)

	devices := append([]drivers.DeviceStatus(nil), res.Devices...)
	sort.Slice(devices, func(i, j int) bool { return devices[i].Device.ID < devices[j].Device.ID })
	for _, ds := range devices {
		l.Info("Device",
			zap.String("id", ds.Device.ID),
			zap.String("name", ds.Device.Name),
			zap.String("manufacturer", ds.Device.Manufacturer),
			zap.String("status", string(ds.Driver.Status)),
			zap.String("version", ds.Driver.Version),
			zap.Bool("update_available", ds.Driver.UpdateAvailable),
		)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
