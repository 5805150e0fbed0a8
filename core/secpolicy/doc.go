// Package secpolicy is the process-wide source of truth for security
// configuration: session cookie attributes, the two session timers, CSRF
// token policy, the redirect allow-list, login rate thresholds, and security
// header presets.
//
// Configuration comes from the environment (core/config) and compiles into
// an immutable Policy at startup:
//
//	var cfg secpolicy.Config
//	config.MustLoad(&cfg)
//	policy, err := secpolicy.New(cfg)
//
// All externally supplied redirect candidates must pass SafeRedirect, which
// admits site-relative paths and absolute URLs targeting the request host or
// an allow-listed host, and falls back to a fixed safe path for everything
// else.
package secpolicy
