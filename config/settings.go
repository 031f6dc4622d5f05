package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings are optional per-run overrides read from a settings file.
// Everything here has a working default, so most runs never load one.
type Settings struct {
	// Columns remaps taxonomy table column names, keyed by field:
	// species, virus_names, accession, family, genus.
	Columns map[string]string

	// OutputDir overrides the default output directory.
	OutputDir string
}

// LoadSettings reads the named settings file (format by extension:
// YAML, TOML or JSON). A name without extension is resolved against
// the working directory the way viper resolves config names. An empty
// name yields zero Settings; a named file that cannot be read is an
// error, since the user asked for it.
func LoadSettings(name string) (Settings, error) {
	var s Settings
	if name == "" {
		return s, nil
	}
	v := viper.New()
	if filepath.Ext(name) != "" {
		v.SetConfigFile(name)
	} else {
		v.SetConfigName(name)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		return s, fmt.Errorf("reading settings %s: %w", name, err)
	}
	s.Columns = v.GetStringMapString("columns")
	s.OutputDir = v.GetString("output.dir")
	return s, nil
}
