// Package logging provides structured logging for cobalt.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation. Planning jobs, catalogue reloads and API requests
// each attach their own attributes so a single log file can be filtered
// after the fact.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/cobalt", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("graph extended", "depth", 3)
//
// # Context Propagation
//
//	jobLogger := logger.WithJob("0b7d...").WithPhase("extract")
//	jobLogger.Debug("plan emitted", "depth", 2)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"plan emitted","job_id":"0b7d...","phase":"extract","depth":2}
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] to capture it.
package logging
