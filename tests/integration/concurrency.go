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

	"golang.org/x/sync/semaphore"
)

const (
	// parallelLimit caps the number of tests running at once
	parallelLimit int64 = 100
)

// IntTest is a single conformance test. It reports its own result
// through the run counters and returns the failure, if any.
type IntTest func(s *S3Conf) error

// TestState manages the execution of tests with optional
// parallelism and synchronization control.
type TestState struct {
	mainCh    chan IntTest        // queued tests, parallel mode only
	syncTests []IntTest           // tests that must run alone after the parallel ones
	conf      *S3Conf             // shared configuration for all tests
	sem       *semaphore.Weighted // limits the number of concurrent tests
	wg        *sync.WaitGroup     // tracks running test goroutines
	done      chan struct{}       // closed once process stops dispatching
	ctx       context.Context     // cancels queued and pending tests
	parallel  bool
}

// NewTestState initializes a new TestState. The background dispatcher
// is always started and only receives work in parallel mode.
func NewTestState(ctx context.Context, conf *S3Conf, parallel bool) *TestState {
	ts := &TestState{
		mainCh:   make(chan IntTest, parallelLimit),
		conf:     conf,
		ctx:      ctx,
		sem:      semaphore.NewWeighted(parallelLimit),
		wg:       &sync.WaitGroup{},
		done:     make(chan struct{}),
		parallel: parallel,
	}

	go ts.process()

	return ts
}

// Run executes a test. In parallel mode the test is queued for
// concurrent execution, otherwise it runs immediately.
func (ct *TestState) Run(f IntTest) {
	select {
	case <-ct.ctx.Done():
		return
	default:
		if ct.parallel {
			ct.mainCh <- f
			return
		}

		f(ct.conf)
	}
}

// Sync queues a test to run after all parallel tests have completed.
// Tests that observe server wide state, such as the bucket list,
// belong here.
func (ct *TestState) Sync(f IntTest) {
	select {
	case <-ct.ctx.Done():
		return
	default:
		ct.syncTests = append(ct.syncTests, f)
	}
}

func (ct *TestState) process() {
	defer close(ct.done)
	for fn := range ct.mainCh {
		select {
		case <-ct.ctx.Done():
			continue
		default:
			if err := ct.sem.Acquire(ct.ctx, 1); err != nil {
				continue
			}
			ct.wg.Add(1)
			go func() {
				defer ct.wg.Done()
				defer ct.sem.Release(1)
				fn(ct.conf)
			}()
		}
	}
}

// Wait blocks until all queued tests complete, then runs the
// synchronous tests one after another. The TestState can not be
// used afterwards.
func (ct *TestState) Wait() {
	close(ct.mainCh)
	<-ct.done
	ct.wg.Wait()

	for _, fn := range ct.syncTests {
		select {
		case <-ct.ctx.Done():
			return
		default:
			fn(ct.conf)
		}
	}
}
