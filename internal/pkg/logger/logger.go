package logger

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ZerologLogger implements ports.Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewStd creates a logger on stderr. Verbose enables debug output; otherwise
// only warnings and errors are written so command output stays readable.
func NewStd(verbose bool) *ZerologLogger {
	return New(os.Stderr, verbose)
}

// New creates a logger writing to out. Terminals get the console format,
// everything else gets JSON lines.
func New(out io.Writer, verbose bool) *ZerologLogger {
	var w io.Writer = out
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	z := zerolog.New(w).Level(level).With().Timestamp().Str("component", "irisform").Logger()
	return &ZerologLogger{log: z}
}

// NewNop returns a logger that discards everything.
func NewNop() *ZerologLogger {
	return &ZerologLogger{log: zerolog.Nop()}
}

func (l *ZerologLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.log.Error().Err(err).Fields(fields).Msg(msg)
}
