package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on the UI goroutine for every message; tests flip it.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("CARDSCOPE_TRACE") != "")
}

// TraceEnabled reports whether CARDSCOPE_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
