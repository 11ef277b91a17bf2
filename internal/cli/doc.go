// Package cli implements the examcal command-line interface.
//
// The root command loads configuration (flags, EXAMCAL_* environment, an
// optional YAML file and a .env file) and sets up structured logging. The
// subcommands are:
//
//	scrape       fetch the exam calendar and write the JSON snapshot
//	serve        run the read-only HTTP API, optionally refreshing on a cron schedule
//	export       write the snapshot (filtered) as iCalendar or JSON
//	config init  write the default configuration as YAML
//
// Any error exits with status 1.
package cli
