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

package integration

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/require"
	"github.com/versity/s3tests/config"
)

func testConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	host, port, err := net.SplitHostPort(url[len("http://"):])
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	return &config.Config{
		Host:         host,
		Port:         p,
		Region:       "us-east-1",
		BucketPrefix: "test-{random}-",
		Main: config.User{
			AccessKey:   "main-access",
			SecretKey:   "main-secret",
			UserID:      "main-id",
			DisplayName: "main",
		},
	}
}

// capture records the last request a test server received
type capture struct {
	mu  sync.Mutex
	req *http.Request
}

func (c *capture) last() *http.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.req
}

// newCaptureConf returns an S3Conf pointed at a server that answers
// every request with an empty 200
func newCaptureConf(t *testing.T) (*S3Conf, *capture) {
	t.Helper()
	c := &capture{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.req = r.Clone(context.Background())
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	return NewS3Conf(testConfig(t, ts.URL)), c
}

func newFakeConf(t *testing.T) *S3Conf {
	t.Helper()
	faker := gofakes3.New(s3mem.New())
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	s := NewS3Conf(testConfig(t, ts.URL))
	require.NoError(t, s.Fixture().Setup(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, s.Fixture().Teardown(context.Background()))
	})
	return s
}

func TestHandlersAgainstFakeServer(t *testing.T) {
	s := newFakeConf(t)
	ResetCounters()

	tests := []struct {
		name string
		fn   IntTest
	}{
		{"Bucket_head", Bucket_head},
		{"Bucket_create_delete", Bucket_create_delete},
		{"Bucket_delete_notexist", Bucket_delete_notexist},
		{"Object_read_notexist", Object_read_notexist},
		{"Object_write_read_update_read_delete", Object_write_read_update_read_delete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.fn(s))
		})
	}

	require.Equal(t, int64(len(tests)), RunCount.Load())
	require.Equal(t, int64(len(tests)), PassCount.Load())
	require.Zero(t, FailCount.Load())

	buckets, err := s.Fixture().Cleaner().Buckets(context.Background(), s.Fixture().Prefix())
	require.NoError(t, err)
	require.Empty(t, buckets, "handlers must release their buckets")
}
