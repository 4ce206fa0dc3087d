package dialogtest

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"

	"github.com/sipcore/dialogcore/dialog"
)

// ConfigureTestLogging wires the package's zerolog sink and a secondary
// logrus formatter for local debugging, mirroring the teacher's own
// example/proxysip/main_test.go TestMain pattern (two loggers side by
// side, the logrus one left at a coarser default level and only promoted
// to Trace under -debug).
func ConfigureTestLogging(debug bool) *logrus.Logger {
	logruser := logrus.New()
	logruser.Formatter = &logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	}
	logruser.SetOutput(os.Stderr)

	level := zerolog.WarnLevel
	if debug {
		logruser.SetLevel(logrus.TraceLevel)
		level = zerolog.DebugLevel
	}

	dialog.SetLogger(zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05.000",
	}).With().Timestamp().Logger().Level(level))

	return logruser
}
