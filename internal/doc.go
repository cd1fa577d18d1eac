// Package internal contains the implementation packages of the codex CLI.
//
// # Package Organization
//
//   - lang: template corpus compilation into an immutable Catalog
//   - render: per-language render procedures and payload extraction
//   - payload: gzip then base64 encoding of payload bytes
//   - source: source file collection and presets
//   - inout: stdin/stdout or staged file input and output
//   - config: layered configuration with validation
//   - watcher: debounced file system monitoring for `codex watch`
//   - server: the HTTP render service behind `codex serve`
//   - errors: the CodexError taxonomy and error suggestions
//   - logging: structured logging on log/slog
//   - version: build information
//   - testutils: fixtures shared by the test suites
//
// # Data Flow
//
// A render reads the payload, collects source files, looks the target up in
// the Catalog and streams preamble, annotation block, middle, encoded payload
// and postamble into a staged output that is only committed on success.
package internal
