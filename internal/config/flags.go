package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	files := DefaultFiles()

	// File locations
	flags.String("config", files.Settings, "Path to the settings file (JSON or YAML)")
	flags.String("payload", files.Payload, "File whose text is sent for non-form content types")
	flags.String("output", files.Output, "File the response is written to")

	// Request overrides
	flags.String("url", "", "Override the target URL from the settings file")
	flags.StringP("verb", "X", "", "Override the HTTP verb (GET, POST, PUT, PATCH, DELETE)")
	flags.String("content-type", "", "Override the declared content type")
	flags.String("token", "", "Override the bearer token")
	flags.Duration("timeout", 0, "Request timeout (0 keeps the transport default)")

	// Console flags
	flags.BoolP("verbose", "v", false, "Print debug lines and error traces")
	flags.Bool("no-color", false, "Disable colored console output")
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the settings file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("payload") {
		val, err := fs.GetString("payload")
		if err != nil {
			return err
		}
		cfg.Files.Payload = strings.TrimSpace(val)
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.Files.Output = strings.TrimSpace(val)
	}
	if fs.Changed("url") {
		val, err := fs.GetString("url")
		if err != nil {
			return err
		}
		cfg.URL = strings.TrimSpace(val)
	}
	if fs.Changed("verb") {
		val, err := fs.GetString("verb")
		if err != nil {
			return err
		}
		cfg.HTTPVerb = val
	}
	if fs.Changed("content-type") {
		val, err := fs.GetString("content-type")
		if err != nil {
			return err
		}
		cfg.ContentType = strings.TrimSpace(val)
	}
	if fs.Changed("token") {
		val, err := fs.GetString("token")
		if err != nil {
			return err
		}
		cfg.Token = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("verbose") {
		val, err := fs.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = val
	}
	if fs.Changed("no-color") {
		val, err := fs.GetBool("no-color")
		if err != nil {
			return err
		}
		cfg.NoColor = val
	}
	return nil
}
