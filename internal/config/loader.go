package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/pretty"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// Environment variables consulted when the settings file leaves a secret empty.
const (
	EnvPassword                  = "POSTFIRE_PASSWORD"
	EnvToken                     = "POSTFIRE_TOKEN"
	EnvClientCertificatePassword = "POSTFIRE_CLIENT_CERTIFICATE_PASSWORD"
)

// ErrConfigNotFound is returned when the settings file does not exist.
var ErrConfigNotFound = errors.New("settings file not found")

// Loader handles loading configuration from the settings file and command-line flags.
type Loader struct{}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the settings file named by the --config flag (appsettings.json
// by default) and applies any changed flags on top. flagSet may be nil.
func (Loader) Load(flagSet *pflag.FlagSet) (*Config, error) {
	cfg := &Config{
		Files:   DefaultFiles(),
		Tracing: TracingConfig{SampleRate: 1.0},
	}

	if flagSet != nil && flagSet.Changed("config") {
		path, err := flagSet.GetString("config")
		if err != nil {
			return nil, err
		}
		cfg.Files.Settings = strings.TrimSpace(path)
	}

	if err := readSettingsFile(cfg); err != nil {
		return nil, err
	}

	if flagSet != nil {
		if err := applyFlagOverrides(cfg, flagSet); err != nil {
			return nil, err
		}
	}

	applyEnvFallbacks(cfg)

	if cfg.AdditionalHeaders == nil {
		cfg.AdditionalHeaders = Section{}
	}
	if cfg.FormDataKeyAndValues == nil {
		cfg.FormDataKeyAndValues = Section{}
	}

	return cfg, nil
}

// LoadFile reads a settings file without any flag overrides.
func (l Loader) LoadFile(path string) (*Config, error) {
	flagSet := pflag.NewFlagSet("postfire", pflag.ContinueOnError)
	configureFlags(flagSet)
	if err := flagSet.Set("config", path); err != nil {
		return nil, err
	}
	return l.Load(flagSet)
}

func readSettingsFile(cfg *Config) error {
	path := cfg.Files.Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("read settings %s: %w", path, err)
	}

	format := settingsFormat(path)
	if format == formatJSON {
		data = normalizeJSON(data)
	}
	cfgViper := viper.New()
	cfgViper.SetConfigType(format)
	if err := cfgViper.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}

	if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
		return fmt.Errorf("settings %s: %w", path, err)
	}

	sections, err := readSections(data, format, additionalHeadersKey, formDataKeyAndValuesKey)
	if err != nil {
		return fmt.Errorf("settings %s: %w", path, err)
	}
	cfg.AdditionalHeaders = sections[additionalHeadersKey]
	cfg.FormDataKeyAndValues = sections[formDataKeyAndValuesKey]
	return nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// normalizeJSON strips a byte order mark, comments and trailing commas so
// both viper and gjson see strict JSON.
func normalizeJSON(data []byte) []byte {
	return pretty.Spec(bytes.TrimPrefix(data, utf8BOM))
}

func settingsFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	stringFields := []struct {
		key    string
		target *string
	}{
		{"clientCertificatePath", &cfg.ClientCertificatePath},
		{"clientCertificatePassword", &cfg.ClientCertificatePassword},
		{"userName", &cfg.UserName},
		{"password", &cfg.Password},
		{"token", &cfg.Token},
		{"httpVerb", &cfg.HTTPVerb},
		{"contentType", &cfg.ContentType},
		{"fileToPostPath", &cfg.FileToPostPath},
		{"url", &cfg.URL},
	}
	for _, field := range stringFields {
		raw, ok := lookupSetting(settings, field.key)
		if !ok {
			continue
		}
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.target = val
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok && raw != nil {
		tracing, err := parseTracing(raw)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		cfg.Tracing = tracing
	}

	return nil
}

func parseTracing(value interface{}) (TracingConfig, error) {
	entry, err := toStringKeyMap(value)
	if err != nil {
		return TracingConfig{}, err
	}
	var tracing TracingConfig
	if raw, ok := lookupSetting(entry, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("endpoint: %w", err)
		}
		tracing.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(entry, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("protocol: %w", err)
		}
		tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(entry, "servicename", "service_name", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("serviceName: %w", err)
		}
		tracing.ServiceName = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(entry, "samplerate", "sample_rate", "sample-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("sampleRate: %w", err)
		}
		tracing.SampleRate = val
	} else {
		tracing.SampleRate = 1.0
	}
	if raw, ok := lookupSetting(entry, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("insecure: %w", err)
		}
		tracing.Insecure = val
	}
	if raw, ok := lookupSetting(entry, "propagate"); ok {
		val, err := asBool(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("propagate: %w", err)
		}
		tracing.Propagate = &val
	}
	return tracing, nil
}

// applyEnvFallbacks fills secrets the settings file left empty.
func applyEnvFallbacks(cfg *Config) {
	if cfg.Password == "" {
		if envPassword := os.Getenv(EnvPassword); envPassword != "" {
			cfg.Password = envPassword
		}
	}
	if cfg.Token == "" {
		if envToken := os.Getenv(EnvToken); envToken != "" {
			cfg.Token = envToken
		}
	}
	if cfg.ClientCertificatePassword == "" {
		if envSecret := os.Getenv(EnvClientCertificatePassword); envSecret != "" {
			cfg.ClientCertificatePassword = envSecret
		}
	}
}
