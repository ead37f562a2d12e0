package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultsFile = "wayland-scribe.toml"

// fileDefaults are optional generation defaults picked up from a TOML
// file in the working directory. Flags always win over the file.
type fileDefaults struct {
	HeaderPath string   `toml:"header_path"`
	Prefix     string   `toml:"prefix"`
	AddInclude []string `toml:"add_include"`
}

func loadDefaults(path string) (fileDefaults, error) {
	var raw fileDefaults
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileDefaults{}, nil
		}
		return fileDefaults{}, fmt.Errorf("load defaults file %s: %w", path, err)
	}

	var out fileDefaults
	if meta.IsDefined("header_path") {
		out.HeaderPath = strings.TrimSpace(raw.HeaderPath)
	}
	if meta.IsDefined("prefix") {
		out.Prefix = strings.TrimSpace(raw.Prefix)
	}
	if meta.IsDefined("add_include") {
		out.AddInclude = raw.AddInclude
	}
	return out, nil
}
