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

// Package fixture manages the buckets of a test run: it picks a
// random run prefix, hands out unique bucket names under it and
// removes every bucket carrying the prefix before and after the run.
package fixture

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/versity/s3tests/debuglogger"
)

// ErrNotReady is returned by bucket operations outside of the
// Ready state.
var ErrNotReady = errors.New("fixture is not ready")

type State int

const (
	StateInit State = iota
	StateCleanup
	StateReady
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCleanup:
		return "cleanup"
	case StateReady:
		return "ready"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Fixture is the run scoped owner of the bucket prefix, the name
// counter and the cleanup of all prefixed buckets.
type Fixture struct {
	client   API
	cleaner  *Cleaner
	template string
	maxLen   int
	prefix   string
	rand     io.Reader

	mu    sync.RWMutex
	state State
	namer *Namer
}

type Option func(*Fixture)

// WithTemplate sets the prefix template, it must contain {random}
func WithTemplate(t string) Option {
	return func(f *Fixture) { f.template = t }
}

// WithMaxLen sets the maximum length of the generated prefix
func WithMaxLen(n int) Option {
	return func(f *Fixture) { f.maxLen = n }
}

// WithPrefix uses p as run prefix instead of generating one.
func WithPrefix(p string) Option {
	return func(f *Fixture) { f.prefix = p }
}

// WithPurgeAttempts bounds how often a non empty bucket is purged
// and deleted again
func WithPurgeAttempts(n int) Option {
	return func(f *Fixture) {
		if n > 0 {
			f.cleaner.attempts = n
		}
	}
}

// WithRetryBackoff sets the base delay between delete attempts
func WithRetryBackoff(d time.Duration) Option {
	return func(f *Fixture) { f.cleaner.backoff = d }
}

// WithRequestTimeout sets the timeout of every single cleanup request
func WithRequestTimeout(d time.Duration) Option {
	return func(f *Fixture) {
		if d > 0 {
			f.cleaner.timeout = d
		}
	}
}

func withRandom(r io.Reader) Option {
	return func(f *Fixture) { f.rand = r }
}

func New(client API, opts ...Option) *Fixture {
	f := &Fixture{
		client:   client,
		cleaner:  NewCleaner(client),
		template: DefaultTemplate,
		maxLen:   DefaultMaxLen,
		rand:     rand.Reader,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Setup picks the run prefix and removes any bucket left behind
// under it. The fixture is Ready afterwards.
func (f *Fixture) Setup(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateInit {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("setup called in state %v", state)
	}

	prefix := f.prefix
	if prefix == "" {
		var err error
		prefix, err = choosePrefix(f.template, f.maxLen, f.rand)
		if err != nil {
			f.mu.Unlock()
			return err
		}
	}
	f.prefix = prefix
	f.namer = NewNamer(prefix)
	f.state = StateCleanup
	f.mu.Unlock()

	debuglogger.Infof("using bucket prefix %q", prefix)

	if err := f.cleaner.Nuke(ctx, prefix); err != nil {
		return fmt.Errorf("initial cleanup: %w", err)
	}

	f.mu.Lock()
	f.state = StateReady
	f.mu.Unlock()
	return nil
}

// Teardown removes every bucket under the run prefix. The fixture
// is Done afterwards, even when the cleanup fails.
func (f *Fixture) Teardown(ctx context.Context) error {
	f.mu.Lock()
	prefix := f.prefix
	started := f.namer != nil
	f.state = StateCleanup
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.state = StateDone
		f.mu.Unlock()
	}()

	if !started {
		return nil
	}

	if err := f.cleaner.Nuke(ctx, prefix); err != nil {
		return fmt.Errorf("final cleanup: %w", err)
	}
	return nil
}

// State returns the current lifecycle state
func (f *Fixture) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Prefix returns the run prefix, empty before Setup
func (f *Fixture) Prefix() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.prefix
}

// Cleaner exposes the cleanup used by the fixture
func (f *Fixture) Cleaner() *Cleaner {
	return f.cleaner
}

// NewBucketName returns a fresh bucket name without creating the
// bucket.
func (f *Fixture) NewBucketName() (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.state != StateReady {
		return "", fmt.Errorf("%w: state %v", ErrNotReady, f.state)
	}
	return f.namer.Next(), nil
}

// CreateOption customizes the CreateBucket request of NewBucket
type CreateOption func(*s3.CreateBucketInput)

// WithCannedACL creates the bucket with the canned acl
func WithCannedACL(acl types.BucketCannedACL) CreateOption {
	return func(in *s3.CreateBucketInput) { in.ACL = acl }
}

// WithObjectLock creates the bucket with object lock enabled
func WithObjectLock() CreateOption {
	return func(in *s3.CreateBucketInput) {
		enabled := true
		in.ObjectLockEnabledForBucket = &enabled
	}
}

// WithLocation sets the bucket location constraint
func WithLocation(region string) CreateOption {
	return func(in *s3.CreateBucketInput) {
		if region == "" || region == "us-east-1" {
			return
		}
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
}

// NewBucket allocates a name and creates the bucket.
func (f *Fixture) NewBucket(ctx context.Context, opts ...CreateOption) (string, error) {
	name, err := f.NewBucketName()
	if err != nil {
		return "", err
	}

	in := &s3.CreateBucketInput{Bucket: &name}
	for _, opt := range opts {
		opt(in)
	}

	rctx, cancel := context.WithTimeout(ctx, f.cleaner.timeout)
	_, err = f.client.CreateBucket(rctx, in)
	cancel()
	if err != nil {
		return "", fmt.Errorf("create bucket %s: %w", name, err)
	}

	return name, nil
}

// Release removes a single test bucket with its content. Buckets
// already gone are not an error.
func (f *Fixture) Release(ctx context.Context, bucket string) error {
	return f.cleaner.DeleteBucket(ctx, bucket)
}
