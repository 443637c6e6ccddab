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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestStateSequential(t *testing.T) {
	var order []int
	record := func(i int) IntTest {
		return func(*S3Conf) error {
			order = append(order, i)
			return nil
		}
	}

	ts := NewTestState(context.Background(), nil, false)
	ts.Run(record(1))
	ts.Sync(record(3))
	ts.Run(record(2))
	assert.Equal(t, []int{1, 2}, order)

	ts.Wait()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestTestStateParallel(t *testing.T) {
	const n = 50
	var (
		finished atomic.Int64
		mu       sync.Mutex
		seen     []int64
	)

	ts := NewTestState(context.Background(), nil, true)
	for range n {
		ts.Run(func(*S3Conf) error {
			finished.Add(1)
			return nil
		})
	}
	ts.Sync(func(*S3Conf) error {
		mu.Lock()
		seen = append(seen, finished.Load())
		mu.Unlock()
		return nil
	})
	ts.Wait()

	assert.Equal(t, int64(n), finished.Load())
	// sync tests start only after every parallel test is done
	assert.Equal(t, []int64{n}, seen)
}

func TestTestStateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	fn := func(*S3Conf) error {
		ran.Store(true)
		return nil
	}

	for _, parallel := range []bool{false, true} {
		ts := NewTestState(ctx, nil, parallel)
		ts.Run(fn)
		ts.Sync(fn)
		ts.Wait()
	}
	assert.False(t, ran.Load())
}
