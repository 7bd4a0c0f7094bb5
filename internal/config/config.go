// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deskmenu/deskmenu/internal/environ"
	"github.com/deskmenu/deskmenu/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "deskmenu"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. DESKMENU_UI_VERBOSE.
	EnvPrefix = "DESKMENU"

	// maxConfigSize bounds the config file read into memory.
	maxConfigSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the deskmenu configuration directory:
// $XDG_CONFIG_HOME/deskmenu, or $HOME/.config/deskmenu when unset.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir(env environ.Environ) (string, error) {
	if dir := env.Get(environ.XDGConfigHome); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := env.HomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the config file that Load would read for opts, whether or
// not it exists.
func Path(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir, err := configDirWithOverride(opts)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// path of the file that was read, or "" when defaults were used.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	resolvedPath := ""

	// An explicit --config path must exist; the default location is optional.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'deskmenu config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cuePath, err := Path(opts)
		if err != nil {
			return nil, "", err
		}
		if fileExists(cuePath) {
			resolvedPath = cuePath
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'deskmenu config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	applyEnvOverrides(v, opts.Env)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check DESKMENU_* environment overrides").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// setDefaults registers every key so that overrides and Unmarshal see them.
func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("search.extra_dirs", defaults.Search.ExtraDirs)
	v.SetDefault("search.follow_symlinks", defaults.Search.FollowSymlinks)
	v.SetDefault("search.use_xdg_data_dirs", defaults.Search.UseXDGDataDirs)
	v.SetDefault("search.cache_size", defaults.Search.CacheSize)
	v.SetDefault("terminal.command", defaults.Terminal.Command)
	v.SetDefault("terminal.candidates", defaults.Terminal.Candidates)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("env_file", defaults.EnvFile)
}

// applyEnvOverrides sets DESKMENU_<KEY> values from env, with dots in the
// key replaced by underscores. List values are comma separated.
func applyEnvOverrides(v *viper.Viper, env environ.Environ) {
	replacer := strings.NewReplacer(".", "_")
	for _, key := range v.AllKeys() {
		name := EnvPrefix + "_" + strings.ToUpper(replacer.Replace(key))
		if val, ok := env.Lookup(name); ok {
			v.Set(key, val)
		}
	}
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before the environment.
func configDirWithOverride(opts LoadOptions) (string, error) {
	if opts.ConfigDirPath != "" {
		return opts.ConfigDirPath, nil
	}
	return ConfigDir(opts.Env)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	// Unify with schema to validate against #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to the config file
// for opts unless it already exists. It returns the file path and whether
// the file was created.
func CreateDefaultConfig(opts LoadOptions) (string, bool, error) {
	cfgPath, err := Path(opts)
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// deskmenu configuration file\n")
	sb.WriteString("// Fields may be omitted; omitted fields keep their defaults.\n\n")

	sb.WriteString("search: {\n")
	writeCUEList(&sb, "\t", "extra_dirs", cfg.Search.ExtraDirs)
	sb.WriteString(fmt.Sprintf("\tfollow_symlinks:   %v\n", cfg.Search.FollowSymlinks))
	sb.WriteString(fmt.Sprintf("\tuse_xdg_data_dirs: %v\n", cfg.Search.UseXDGDataDirs))
	sb.WriteString(fmt.Sprintf("\tcache_size:        %d\n", cfg.Search.CacheSize))
	sb.WriteString("}\n")

	sb.WriteString("\nterminal: {\n")
	sb.WriteString(fmt.Sprintf("\tcommand: %q\n", cfg.Terminal.Command))
	writeCUEList(&sb, "\t", "candidates", cfg.Terminal.Candidates)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose:      %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString("}\n")

	if cfg.EnvFile != "" {
		sb.WriteString(fmt.Sprintf("\nenv_file: %q\n", cfg.EnvFile))
	}

	return sb.String()
}

func writeCUEList(sb *strings.Builder, indent, key string, values []string) {
	if len(values) == 0 {
		sb.WriteString(fmt.Sprintf("%s%s: []\n", indent, key))
		return
	}
	sb.WriteString(fmt.Sprintf("%s%s: [\n", indent, key))
	for _, val := range values {
		sb.WriteString(fmt.Sprintf("%s\t%q,\n", indent, val))
	}
	sb.WriteString(indent + "]\n")
}

// EncodeTOML renders the configuration as TOML.
func EncodeTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config as TOML: %w", err)
	}
	return buf.Bytes(), nil
}
