// Package cmdutil provides utility functions specifically for the remora CLI.
package cmdutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/remora-store/remora/pkg/rpc"
)

// LoadConfig builds the backend configuration by layering, lowest
// precedence first: built-in defaults, a remora.yaml config file (in
// ~/.remora or the working directory), and REMORA_* environment
// variables.
func LoadConfig() (rpc.Config, error) {
	v := viper.New()
	rpc.DefaultGRPC().MergeInto(v)

	v.SetConfigName("remora")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".remora"))
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("REMORA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return rpc.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return rpc.FromViper(v)
}
