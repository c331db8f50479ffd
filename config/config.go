// Package config holds the ambient, environment-overridable defaults for
// the CLI driver: which identifiers the emitter uses, and whether
// declarations use static linkage. No command-line flag overrides these;
// only the environment does. The
// teacher's own go.mod already carries github.com/gobuffalo/envy (pulled in
// transitively for gobuffalo/genny's own config loading); we use it
// directly here for the same purpose envy exists for in that ecosystem —
// env-var overridable defaults with a plain-string fallback, optionally
// backed by a .env file via envy's own godotenv dependency.
package config

import "github.com/gobuffalo/envy"

// Defaults are the generated-identifier and linkage settings regex2c passes
// to the emitter; the CLI has no flags for them.
type Defaults struct {
	ParserName string
	NextName   string
	AcceptName string
	RejectName string
	AllStatic  bool
}

// Load reads REGEX2C_PARSER_NAME, REGEX2C_NEXT_NAME, REGEX2C_ACCEPT_NAME,
// REGEX2C_REJECT_NAME and REGEX2C_ALL_STATIC from the environment (or a
// `.env` file in the working directory, per envy's own lookup order),
// falling back to the original tool's own identifier choices.
func Load() Defaults {
	return Defaults{
		ParserName: envy.Get("REGEX2C_PARSER_NAME", "parse"),
		NextName:   envy.Get("REGEX2C_NEXT_NAME", "next_char"),
		AcceptName: envy.Get("REGEX2C_ACCEPT_NAME", "accept"),
		RejectName: envy.Get("REGEX2C_REJECT_NAME", "reject"),
		AllStatic:  envy.Get("REGEX2C_ALL_STATIC", "") != "",
	}
}
