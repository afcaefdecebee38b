// Package main is the entry point for the covert CLI application.
//
// This file bootstraps the application by invoking the command execution
// logic defined in the cmd package. The covert tool performs safe,
// incremental upgrades of a Python project's pip dependencies with
// automatic test validation and rollback.
package main

import "github.com/covert-tool/covert/cmd"

// main initializes and runs the covert CLI application.
//
// It delegates all command parsing and execution to the cmd package,
// which handles subcommands like update, outdated, and restore.
func main() {
	cmd.Execute()
}
