// Package logging provides structured logging for knockout runs.
//
// It wraps Go's log/slog to write JSON lines to {dir}/knockout.log (or
// stderr), with size-based rotation and a small query layer used by the
// `knockout logs` command.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers
// created via With* methods share the underlying writer. Concurrent match
// runners log through the same [Logger].
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation(".knockout/logs", "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLog := logger.WithRun(runID)
//	runLog.WithMatch(3).WithRound(2).Info("match resolved", "winner", 5)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"match resolved","run_id":"...","match_id":3,"round":2,"winner":5}
//
// # Querying
//
//	entries, err := logging.ReadEntries(path)
//	matches := logging.Filter{RunID: id, Level: "WARN"}.Apply(entries)
//	logging.WriteText(os.Stdout, matches)
package logging
