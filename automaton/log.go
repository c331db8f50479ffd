package automaton

import "github.com/sirupsen/logrus"

// log is this package's internal structured logger, separate from
// cmd/regex2c's user-facing gologger diagnostics: it reports pipeline-stage
// progress (state counts, partition rounds) for whoever is debugging the
// compiler itself, not the person compiling a regex. Silent by default.
var log = logrus.New()

func init() {
	log.SetLevel(logrus.WarnLevel)
}

// SetDebug raises or lowers this package's logging verbosity. cmd/regex2c
// calls this when -d/--debug is set.
func SetDebug(on bool) {
	if on {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
}
