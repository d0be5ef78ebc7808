package main

import (
	"os"
	"strings"

	"opsdash-cli/internal/cli"
)

func isEventID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "ev-") {
		return false
	}
	return len(s) > len("ev-")
}

// rewriteDirectEventLookupArgs lets `opsdash <event-id>` work like
// `opsdash events show <event-id>`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing. Persistent flags may come
// first (e.g. `opsdash --base-url ... ev-42`), so we look for the first
// positional token rather than argv[1].
func rewriteDirectEventLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--base-url": true,
		"--format":   true,
	}

	for i := 1; i < len(argv); i++ {
		a := argv[i]
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isEventID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "events", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectEventLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
