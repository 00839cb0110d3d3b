package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// NullLogger discards everything written to it. Useful for silencing
// per-step scheduler logs when simulating long horizons.
var NullLogger = &log.Logger{
	Out:       io.Discard,
	Formatter: new(log.TextFormatter),
	Hooks:     make(log.LevelHooks),
	Level:     log.PanicLevel,
}

// ConfigureLogging sets up the global logger for command line use.
func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
}
