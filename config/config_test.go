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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullTOML = `
[default]
host = "s3.example.com"
port = 7070
is_secure = false
bucket_prefix = "ci-{random}-"

[main]
access_key = "main-access"
secret_key = "main-secret"
display_name = "main user"
user_id = "main-id"
email = "main@example.com"

[alt]
access_key = "alt-access"
secret_key = "alt-secret"
display_name = "alt user"
user_id = "alt-id"
email = "alt@example.com"
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "s3tests.toml", fullTOML))
	require.NoError(t, err)

	assert.Equal(t, "s3.example.com", cfg.Host)
	assert.Equal(t, 7070, cfg.Port)
	assert.False(t, cfg.IsSecure)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "ci-{random}-", cfg.BucketPrefix)
	assert.Equal(t, "http://s3.example.com:7070", cfg.Endpoint())

	assert.Equal(t, User{
		AccessKey:   "main-access",
		SecretKey:   "main-secret",
		DisplayName: "main user",
		UserID:      "main-id",
		Email:       "main@example.com",
	}, cfg.Main)
	assert.True(t, cfg.Alt.Configured())
	assert.Equal(t, "alt-id", cfg.Alt.UserID)
}

func TestLoadYAMLDefaults(t *testing.T) {
	path := writeConfig(t, "s3tests.yaml", `
default:
  host: localhost
  is_secure: true
main:
  access_key: ak
  secret_key: sk
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 443, cfg.Port)
	assert.Equal(t, "https://localhost:443", cfg.Endpoint())
	assert.Equal(t, "test-{random}-", cfg.BucketPrefix)
	assert.False(t, cfg.Alt.Configured())
}

func TestLoadUnknownExtensionIsTOML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "s3tests.conf", fullTOML))
	require.NoError(t, err)
	assert.Equal(t, "s3.example.com", cfg.Host)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("S3TEST_MAIN_SECRET_KEY", "from-env")
	t.Setenv("S3TEST_DEFAULT_HOST", "override.local")

	cfg, err := Load(writeConfig(t, "s3tests.toml", fullTOML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Main.SecretKey)
	assert.Equal(t, "override.local", cfg.Host)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		err     error
	}{
		{
			name: "missing default section",
			file: "a.toml",
			content: `
[main]
access_key = "ak"
secret_key = "sk"
`,
			err: ErrMissingSection,
		},
		{
			name: "missing host",
			file: "b.toml",
			content: `
[default]
port = 80
[main]
access_key = "ak"
secret_key = "sk"
`,
			err: ErrMissingSetting,
		},
		{
			name: "missing secret",
			file: "c.toml",
			content: `
[default]
host = "localhost"
[main]
access_key = "ak"
`,
			err: ErrMissingSetting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestLoadNoPath(t *testing.T) {
	_, err := Load("")
	assert.True(t, errors.Is(err, ErrNoConfig))
}

func TestLoadUnreadable(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
