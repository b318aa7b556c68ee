// Package cli implements the campus command-line interface.
//
// The root command is "campus" with these subcommands:
//
//	campus serve     - Run the HTTP server with the live status panel
//	campus status    - Print a one-shot status report (panel or JSON)
//	campus version   - Print build information
//
// Every command loads configuration the same way: .env files first, then
// campus.yaml (or --config), then environment variables, and validates the
// result before touching the database.
//
// serve owns the process lifecycle. It opens the data store, starts the
// HTTP listener, shows the boot animation and the status panel when stdout
// is a terminal, and on SIGINT or SIGTERM stops the panel before shutting
// the server and connections down. A terminal the panel cannot be laid out
// on gets a single static report instead.
package cli
