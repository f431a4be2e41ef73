package config

import (
	"flag"
	"os"
	"time"

	"github.com/cdcsn/portal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the portal API
//	-d string   device name sent with credential exchanges
//	-b string   path of the local sqlite database
//	-t int      request timeout in seconds
//
// os.Args is filtered to the flags handled here (flagx.FilterArgs) so the
// -c/-config flags consumed by the JSON loader do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-b", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the portal API")
	fs.StringVar(&cfg.DeviceName, "d", cfg.DeviceName, "device name sent to the backend")
	fs.StringVar(&cfg.DatabasePath, "b", cfg.DatabasePath, "path of the local session database")
	timeoutSeconds := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSeconds) * time.Second
}
