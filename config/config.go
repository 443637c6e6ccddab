// Copyright 2023 Versity Software
// This file is licensed under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/versity/s3tests/fixture"
)

const (
	// EnvConfig names the environment variable holding the config path
	EnvConfig = "S3TEST_CONF"
	// EnvPrefix is the prefix of setting overrides, e.g. S3TEST_MAIN_SECRET_KEY
	EnvPrefix = "S3TEST"

	defaultRegion = "us-east-1"
)

var (
	ErrNoConfig       = errors.New("no config file given, set " + EnvConfig + " or --config")
	ErrMissingSection = errors.New("config is missing a section")
	ErrMissingSetting = errors.New("config is missing a required setting")
)

// User holds the credentials and identity of one test account
type User struct {
	AccessKey   string
	SecretKey   string
	DisplayName string
	UserID      string
	Email       string
	APIName     string
}

// Configured reports whether the user has usable credentials
func (u User) Configured() bool {
	return u.AccessKey != "" && u.SecretKey != ""
}

// Config is the loaded test suite configuration. It is read once
// at startup and passed to everything that needs it.
type Config struct {
	Host         string
	Port         int
	IsSecure     bool
	SSLVerify    bool
	Region       string
	BucketPrefix string

	Main User
	Alt  User
}

// Load reads the config file at path. Settings can be overridden
// from the environment with the S3TEST_ prefix.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrNoConfig
	}

	v := viper.New()
	v.SetConfigFile(path)
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "yaml", "yml", "json", "toml":
	default:
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("default.region", defaultRegion)
	v.SetDefault("default.bucket_prefix", fixture.DefaultTemplate)
	v.SetDefault("default.is_secure", false)
	v.SetDefault("default.ssl_verify", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %v: %w", path, err)
	}

	if !v.InConfig("default") {
		return nil, fmt.Errorf("%w: [default]", ErrMissingSection)
	}

	cfg := &Config{
		Host:         v.GetString("default.host"),
		Port:         v.GetInt("default.port"),
		IsSecure:     v.GetBool("default.is_secure"),
		SSLVerify:    v.GetBool("default.ssl_verify"),
		Region:       v.GetString("default.region"),
		BucketPrefix: v.GetString("default.bucket_prefix"),
		Main:         getUser(v, "main"),
		Alt:          getUser(v, "alt"),
	}

	if cfg.Port == 0 {
		cfg.Port = 80
		if cfg.IsSecure {
			cfg.Port = 443
		}
	}

	required := []struct {
		key, val string
	}{
		{"default.host", cfg.Host},
		{"default.region", cfg.Region},
		{"main.access_key", cfg.Main.AccessKey},
		{"main.secret_key", cfg.Main.SecretKey},
	}
	for _, r := range required {
		if r.val == "" {
			return nil, fmt.Errorf("%w: %v", ErrMissingSetting, r.key)
		}
	}

	return cfg, nil
}

func getUser(v *viper.Viper, section string) User {
	return User{
		AccessKey:   v.GetString(section + ".access_key"),
		SecretKey:   v.GetString(section + ".secret_key"),
		DisplayName: v.GetString(section + ".display_name"),
		UserID:      v.GetString(section + ".user_id"),
		Email:       v.GetString(section + ".email"),
		APIName:     v.GetString(section + ".api_name"),
	}
}

// Endpoint returns the base url of the server under test
func (c *Config) Endpoint() string {
	proto := "http"
	if c.IsSecure {
		proto = "https"
	}
	return fmt.Sprintf("%v://%v", proto, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)))
}
