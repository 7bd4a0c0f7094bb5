// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/deskmenu/config.cue (falling
// back to ~/.config/deskmenu/config.cue). The file is validated against the
// embedded #Config schema (config_schema.cue) before it is merged on top of
// the defaults. DESKMENU_<SECTION>_<KEY> environment variables override
// individual settings.
package config
