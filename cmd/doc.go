// Package cmd provides the command-line interface for prism.
//
// This package implements every command with the Cobra framework. Commands
// compile the token document into the base stylesheet, the three
// presentation framework stylesheets and the utility framework config, or
// read from it without writing.
//
// # Available Commands
//
//   - (none): build once, or watch with --watch
//   - build: write every artifact once
//   - watch: rebuild on every change of the token document
//   - css: print one stylesheet
//   - tokens: list the flattened custom properties
//   - check: lint the written stylesheets
//   - serve: live style guide with reload
//   - config: show or validate the effective configuration
//   - version: build information
//
// # Exit Status
//
// A one-shot build exits 0 only when all five artifacts were generated and
// written. Watch and serve run until interrupted. Any other command exits
// non-zero on error.
//
// # Configuration
//
//	The CLI reads its settings from several sources with clear precedence:
//	1. Command-line flags (--tokens, --output, --log-level, ...) - highest priority
//	2. PRISM_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (PRISM_OUTPUT_DIR, PRISM_SERVER_PORT, ...)
//	4. Configuration file (.prism.yml in the working directory)
//	5. Built-in defaults - lowest priority
//
// # Environment Variables
//
//	PRISM_CONFIG_FILE: Path to custom configuration file
//	PRISM_TOKENS_PATH: Token document to compile
//	PRISM_OUTPUT_DIR: Directory the artifacts are written to
//	And every other key following the PRISM_<SECTION>_<OPTION> pattern
package cmd
