// Package notify announces driver status changes over NATS.
//
// Every reconciliation pass that produces a status map (the fast initial pass,
// the final pass after the update lookup settles, single-device checks and
// post-install checks) is published as a CloudEvents 1.0 JSON envelope on a
// single subject, "drivers.changed" by default. Subscribers use the event to
// refresh their view of the workstation.
//
// Notifications are best effort. Publishing failures are returned to the
// caller, which logs them and carries on.
//
// # Usage
//
//	n, closeFn, err := notify.Connect(cfg.Notify, log)
//	if err != nil {
//	    return err
//	}
//	defer closeFn()
//	_ = n.Notify(ctx, notify.Change{Phase: notify.PhaseFinal, DeviceIDs: changed})
package notify
