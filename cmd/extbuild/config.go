package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/config"
	toml "github.com/pelletier/go-toml/v2"
)

var appConfig = loadConfig()

func loadConfig() *config.Config {
	cfg := &config.Config{}

	merge := func(path string) {
		if path == "" {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			fmt.Fprintf(os.Stderr, "warning: unable to read config %s: %v\n", path, err)
			return
		}

		var fileCfg config.Config
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: unable to parse config %s: %v\n", path, err)
			return
		}

		cfg.Merge(fileCfg)
	}

	merge(userConfigPath())
	merge(projectConfigPath())

	return cfg
}

func userConfigPath() string {
	if path := os.Getenv("EXTBUILD_CONFIG"); path != "" {
		return path
	}

	var base string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		base = xdg
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}

	return filepath.Join(base, "extbuild", "config.toml")
}

func projectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".extbuild.toml")
}
