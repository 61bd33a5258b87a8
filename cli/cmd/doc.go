// Package cmd provides the qex subcommands: one per dialect, plus fmt for
// inspecting captured expression trees and repl for the interactive loop.
package cmd
