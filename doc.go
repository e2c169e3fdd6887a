// Package aspectlog provides declarative method logging: functions registered for
// logging are wrapped with four observation points (before-call, after-return,
// after-error and around-timing), each of which consults a level gate before
// emitting a line to a structured logging backend built on rs/zerolog.
//
// Key features
//   - Gate: a single minimum level plus an enabled flag decide what is emitted
//   - Transparent wrapping: results, errors and panics reach the caller unchanged
//   - Timing is always recorded from a deferred block, including on panics
//   - Explicit designation through a Registry instead of annotation scanning
//   - Config from defaults, a YAML file and ASPECTLOG_* environment variables,
//     validated eagerly so an unknown level fails at startup
//   - Backend with file rotation via lumberjack, console formatting, and
//     error history enrichment for Station-Manager DetailedError chains
//
// Typical usage
//
//	cfg, err := aspectlog.LoadConfig("logging.yaml")
//	if err != nil { panic(err) }
//	svc := &aspectlog.Service{WorkingDir: wd, LoggingConfig: &cfg}
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	ic, err := aspectlog.NewInterceptor(cfg, svc)
//	if err != nil { panic(err) }
//	lookup := aspectlog.Func1(ic, "LookupCallsign", repo.Lookup)
//	station, err := lookup("M0ABC")
package aspectlog
