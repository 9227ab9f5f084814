// Package core holds the account cancellation contracts: account ids and
// shares, the typed error codes, configuration loading and resolution, and
// the logging helpers shared by every other package. Transport, rate limiting
// and orchestration live in their own packages and depend on core, never the
// other way around.
package core
