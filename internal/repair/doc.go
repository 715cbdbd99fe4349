// Package repair provides the orchestration logic for finding and fixing
// packs that still carry the obsolete "#missing" fallback token.
//
// # Manager
//
// The Manager coordinates the entire repair process:
//
//  1. Scan a directory for candidate .zip packages (backups excluded)
//  2. Inspect each pack's text-bearing entries for the fallback token
//  3. Back up every affected pack before touching it
//  4. Rewrite "#missing" to "#0" and atomically replace the archive
//  5. Report a summary of what was repaired, clean, skipped or failed
//
// # Basic Usage
//
//	manager := repair.NewManager(settings, func(event repair.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Scan(ctx, dir); err != nil {
//	    log.Fatal(err) // fatal: directory missing or unreadable
//	}
//
//	if err := manager.Run(ctx); err != nil {
//	    log.Fatal(err) // only on cancellation
//	}
//
//	summary := manager.Summary()
//
// # Error Handling
//
// Per-pack failures are wrapped in PackError with the failing Stage (read,
// backup or write) and never abort the run; the affected pack is reported
// and the rest of the directory is still processed. A backup-stage failure
// leaves the original pack untouched. A write-stage failure happens after a
// successful backup, so the pack can be restored from it.
//
// # Concurrency
//
// Packs are independent, so Run may repair up to MaxConcurrentRepairs packs
// in parallel via an errgroup. The default limit of 1 processes packs
// sequentially in directory-listing order.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package repair
