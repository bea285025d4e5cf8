// Package cli implements the command-line interface for hackfind.
//
// The cli package provides the Cobra-based CLI: a non-interactive list
// command with text/JSON output, the interactive browser, source listing,
// bookmarks, AI search and calendar export. It wires configuration, the API
// client, the bookmark store and the engine together for each command.
package cli
