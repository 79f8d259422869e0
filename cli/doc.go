// Package cli implements the command-line interface for recview.
//
// The cli package provides:
// - Command-line argument parsing and configuration loading
// - An interactive record browser with a detail pager
// - Non-interactive listing, fetching and opening of records
package cli
