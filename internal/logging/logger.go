package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger. APP_ENV=dev gets the console writer on
// stdout, anything else JSON. Extra sinks (the Logstash writer) receive the
// JSON stream as well.
func New(env string, sinks ...io.Writer) zerolog.Logger {
	var out io.Writer = os.Stdout
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	if len(sinks) > 0 {
		writers := append([]io.Writer{out}, sinks...)
		out = zerolog.MultiLevelWriter(writers...)
	}
	level := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "hens-travel").Logger()
}
