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

package metrics

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	kind   string
	module string
	key    string
	value  int64
	tags   []Tag
}

type fakePublisher struct {
	mu     sync.Mutex
	points []recorded
	closed bool
}

func (f *fakePublisher) Add(module, key string, value int64, tags ...Tag) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, recorded{"add", module, key, value, tags})
}

func (f *fakePublisher) Gauge(module, key string, value int64, tags ...Tag) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, recorded{"gauge", module, key, value, tags})
}

func (f *fakePublisher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func TestReport(t *testing.T) {
	pub := &fakePublisher{}
	mgr := newManager(context.Background(), []Tag{{Key: "run", Value: "01H"}}, pub)

	mgr.Report("Bucket", "Bucket_create_delete", nil, 1500*time.Millisecond)
	mgr.Report("Bucket", "Bucket_notexist", errors.New("boom"), time.Second)
	mgr.Close()

	require.True(t, pub.closed)

	var passed, failed int64
	var durations []int64
	for _, p := range pub.points {
		assert.Equal(t, "tests", p.module)
		assert.Contains(t, p.tags, Tag{Key: "run", Value: "01H"})
		assert.Contains(t, p.tags, Tag{Key: "group", Value: "Bucket"})
		switch p.key {
		case "passed_count":
			passed += p.value
		case "failed_count":
			failed += p.value
		case "duration_ms":
			durations = append(durations, p.value)
		}
	}
	assert.Equal(t, int64(1), passed)
	assert.Equal(t, int64(1), failed)
	assert.ElementsMatch(t, []int64{1500, 1000}, durations)
}

func TestNilManager(t *testing.T) {
	mgr, err := NewManager(context.Background(), Config{})
	require.NoError(t, err)
	assert.Nil(t, mgr)

	// all methods are no-ops on a nil manager
	mgr.Report("g", "t", nil, time.Second)
	mgr.Summary(1, 1, 0)
	mgr.Increment("m", "k")
	mgr.Close()
}

func TestCanceledContextDropsData(t *testing.T) {
	pub := &fakePublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	mgr := newManager(ctx, nil, pub)
	cancel()

	mgr.Report("g", "t", nil, time.Second)
	mgr.Close()
	assert.Empty(t, pub.points)
}

func TestSplitServers(t *testing.T) {
	assert.Equal(t, []string{"a:8125", "b:8125"}, splitServers(" a:8125, ,b:8125"))
	assert.Nil(t, splitServers(""))
}

func TestStatsdPublishes(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	mgr, err := NewManager(context.Background(), Config{
		StatsdServers: conn.LocalAddr().String(),
		RunID:         "run-1",
	})
	require.NoError(t, err)
	require.NotNil(t, mgr)

	mgr.Report("Object", "Object_head_zero_bytes", nil, time.Millisecond)
	mgr.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 2048)
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(buf[:n]), "s3tests.tests."), string(buf[:n]))
}
