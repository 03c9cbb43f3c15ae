package tests

import (
	"flag"
	"testing"

	"go.uber.org/zap"
)

var debug = flag.Bool("debug", false, "Enable zap development logging during tests")

// CheckDebugLogs swaps the global zap logger for a development one when the
// -debug flag is set, so repository and handler integration tests show their
// query and error logs
func CheckDebugLogs(t *testing.T) {
	if debug != nil && *debug {
		logger, err := zap.NewDevelopment(zap.AddStacktrace(zap.ErrorLevel))
		if err != nil {
			t.Fatal(err)
		}
		defer logger.Sync()
		zap.ReplaceGlobals(logger)
	}
}
