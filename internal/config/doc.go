// Package config defines examcal's configuration and loads it with viper.
//
// Values come, in increasing precedence, from built-in defaults, a YAML file
// (--config, ./config.yaml or $HOME/.config/examcal/config.yaml), EXAMCAL_*
// environment variables (EXAMCAL_SCRAPE_START_DATE for scrape.start_date) and
// command-line flags bound by the cli package.
package config
