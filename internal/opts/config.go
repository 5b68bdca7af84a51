/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigError occures when a configuration file cannot be loaded.
type ConfigError struct {
	Path   string
	Key    string
	Reason string
}

func (self ConfigError) Error() string {
	if self.Key != "" {
		return fmt.Sprintf("ConfigError(%s): %s: %s", self.Path, self.Key, self.Reason)
	} else {
		return fmt.Sprintf("ConfigError(%s): %s", self.Path, self.Reason)
	}
}

// FileConfig is the on-disk form of Options. Nil fields were absent from
// the file and leave the corresponding option untouched.
type FileConfig struct {
	MaxIterations *int      `toml:"max_iterations" yaml:"max_iterations"`
	Parallelism   *int      `toml:"parallelism" yaml:"parallelism"`
	Verify        *bool     `toml:"verify" yaml:"verify"`
	LogLevel      *string   `toml:"log_level" yaml:"log_level"`
	Passes        *[]string `toml:"passes" yaml:"passes"`
}

// LoadFile reads a TOML (.toml) or YAML (.yaml, .yml) configuration file.
func LoadFile(path string) (*FileConfig, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	/* select the decoder by extension */
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return decodeTOML(path, buf)
	case ".yaml", ".yml":
		return decodeYAML(path, buf)
	default:
		return nil, &ConfigError{Path: path, Reason: "unsupported file extension " + ext}
	}
}

func decodeTOML(path string, buf []byte) (*FileConfig, error) {
	var cfg FileConfig
	meta, err := toml.Decode(string(buf), &cfg)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}

	/* reject keys we don't know about */
	if keys := meta.Undecoded(); len(keys) != 0 {
		return nil, &ConfigError{Path: path, Key: keys[0].String(), Reason: "unknown key"}
	}
	return cfg.validate(path)
}

func decodeYAML(path string, buf []byte) (*FileConfig, error) {
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)

	/* an empty document is a valid, empty config */
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}
	return cfg.validate(path)
}

func (self *FileConfig) validate(path string) (*FileConfig, error) {
	if self.MaxIterations != nil && *self.MaxIterations < 1 {
		return nil, &ConfigError{Path: path, Key: "max_iterations", Reason: "must be at least 1"}
	}
	if self.Parallelism != nil && *self.Parallelism < 1 {
		return nil, &ConfigError{Path: path, Key: "parallelism", Reason: "must be at least 1"}
	}
	if self.LogLevel != nil {
		if _, err := NewLogger(*self.LogLevel); err != nil {
			return nil, &ConfigError{Path: path, Key: "log_level", Reason: err.Error()}
		}
	}
	return self, nil
}

// Apply overrides the options defined in the file.
func (self *FileConfig) Apply(o *Options) {
	if self.MaxIterations != nil {
		o.MaxIterations = *self.MaxIterations
	}
	if self.Parallelism != nil {
		o.Parallelism = *self.Parallelism
	}
	if self.Verify != nil {
		o.Verify = *self.Verify
	}
	if self.Passes != nil {
		o.Passes = append([]string(nil), (*self.Passes)...)
	}
	if self.LogLevel != nil {
		o.Logger, _ = NewLogger(*self.LogLevel)
	}
}
