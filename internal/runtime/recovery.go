// Panic recovery at the dispatch boundary. A script handler that
// panics must never take the host down with it.
package runtime

import (
	"runtime/debug"

	"go.uber.org/zap"
)

func logRecovered(log *zap.Logger, context string, panicVal any) {
	log.Error("recovered panic",
		zap.String("context", context),
		zap.Any("panic", panicVal),
		zap.String("stack", string(debug.Stack())))
}

// RecoverPanic recovers from a panic and logs it. Call via defer at
// the top of goroutines that run script code.
func RecoverPanic(log *zap.Logger, context string) {
	if r := recover(); r != nil {
		logRecovered(log, context, r)
	}
}

// SafeCall runs fn with panic recovery. Returns false if fn panicked.
func SafeCall(log *zap.Logger, context string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			logRecovered(log, context, r)
		}
	}()
	fn()
	return true
}

// SafeCallWithResult runs fn with panic recovery and returns its
// result, or defaultVal if fn panicked.
func SafeCallWithResult[T any](log *zap.Logger, context string, defaultVal T, fn func() T) (out T) {
	out = defaultVal
	defer func() {
		if r := recover(); r != nil {
			logRecovered(log, context, r)
		}
	}()
	return fn()
}
