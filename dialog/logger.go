package dialog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-level structured logger, matching the zerolog
// convention the teacher uses for its transaction/transport layers (the
// dialog core's ambient stack deliberately differs from the sip package's
// own log/slog usage — see SPEC_FULL.md §3's two-register split).
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger replaces the package-level logger, for callers embedding this
// module in a larger service with its own zerolog configuration.
func SetLogger(l zerolog.Logger) {
	Logger = l
}
