// Package config holds the application configuration: command-line flags
// overlaid with KESTREL_-prefixed environment variables, backed by viper.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	v *viper.Viper
}

// Load parses args and binds them, together with the environment, into the
// config. It must be called before any getter.
func (c *Config) Load(args []string) error {
	c.v = viper.New()

	fs := pflag.NewFlagSet("kestrel", pflag.ContinueOnError)
	fs.Bool("debug", false, "debug logging")
	fs.String("user-name", "", "the handle you play under; used to tell which side of a game is yours")
	fs.String("default-connector", "fics", "short name of the connector results are recorded against")
	fs.String("pgn-directory", "./data/pgn", "directory holding PGN game files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}

	c.v.SetEnvPrefix("kestrel")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return nil
}

// AdjustRelativePaths anchors relative path settings at the executable's
// directory, so the binary finds its data regardless of the working
// directory it was started from.
func (c *Config) AdjustRelativePaths(basepath string) {
	pgnDir := c.GetString("pgn-directory")
	if !filepath.IsAbs(pgnDir) {
		c.v.Set("pgn-directory", filepath.Join(basepath, pgnDir))
	}
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// Settings returns the effective settings for the startup log line.
func (c *Config) Settings() string {
	keys := c.v.AllKeys()
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, c.v.Get(k)))
	}
	return strings.Join(pairs, " ")
}
