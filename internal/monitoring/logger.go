package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level run logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf logs only when verbose output is enabled.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose routes Debugf to Logf when on, and mutes it otherwise.
func SetVerbose(on bool) {
	if !on {
		Debugf = func(string, ...interface{}) {}
		return
	}
	Debugf = func(format string, v ...interface{}) { Logf(format, v...) }
}

// Stage logs the start of a named simulation stage and returns a func
// that logs its duration.
//
//	done := monitoring.Stage("tracking")
//	defer done()
func Stage(name string) func() {
	start := time.Now()
	Debugf("%s: started", name)
	return func() {
		Logf("%s: done in %s", name, time.Since(start).Round(time.Millisecond))
	}
}
