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
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	// max size of data items to buffer before dropping
	// new incoming data items
	dataItemCount = 100000
)

const (
	namespace   = "s3tests"
	moduleTests = "tests"
	moduleRun   = "run"
)

func metricName(module, key string) string {
	return module + "." + key
}

// Tag is added metadata for metrics
type Tag struct {
	// Key is tag name
	Key string
	// Value is tag data
	Value string
}

// Manager is a manager of metrics plugins
type Manager struct {
	wg  sync.WaitGroup
	ctx context.Context

	runTags       []Tag
	publishers    []publisher
	addDataChan   chan datapoint
	gaugeDataChan chan datapoint
}

type Config struct {
	// StatsdServers is a comma separated list of statsd servers
	StatsdServers string
	// DogStatsdServers is a comma separated list of dogstatsd servers
	DogStatsdServers string
	// RunID tags every datapoint of this run
	RunID string
}

// NewManager initializes metrics plugins and returns a new metrics
// manager. It returns nil when no server is configured, a nil
// Manager is safe to use.
func NewManager(ctx context.Context, conf Config) (*Manager, error) {
	if conf.StatsdServers == "" && conf.DogStatsdServers == "" {
		return nil, nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to get hostname: %w", err)
	}

	var publishers []publisher
	for _, server := range splitServers(conf.StatsdServers) {
		publishers = append(publishers, newStatsd(server, hostname))
	}
	for _, server := range splitServers(conf.DogStatsdServers) {
		dd, err := newDogStatsd(server, hostname)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, dd)
	}

	var tags []Tag
	if conf.RunID != "" {
		tags = append(tags, Tag{Key: "run", Value: conf.RunID})
	}

	return newManager(ctx, tags, publishers...), nil
}

func newManager(ctx context.Context, tags []Tag, publishers ...publisher) *Manager {
	mgr := &Manager{
		ctx:           ctx,
		runTags:       tags,
		publishers:    publishers,
		addDataChan:   make(chan datapoint, dataItemCount),
		gaugeDataChan: make(chan datapoint, dataItemCount),
	}

	mgr.wg.Add(2)
	go mgr.addForwarder(mgr.addDataChan)
	go mgr.gaugeForwarder(mgr.gaugeDataChan)

	return mgr
}

func splitServers(s string) []string {
	var servers []string
	for _, server := range strings.Split(s, ",") {
		if server = strings.TrimSpace(server); server != "" {
			servers = append(servers, server)
		}
	}
	return servers
}

// Report records the outcome and duration of a single test
func (m *Manager) Report(group, test string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	if group == "" {
		group = "ungrouped"
	}

	tags := append([]Tag{
		{Key: "group", Value: group},
		{Key: "test", Value: test},
	}, m.runTags...)

	if err != nil {
		m.Increment(moduleTests, "failed_count", tags...)
	} else {
		m.Increment(moduleTests, "passed_count", tags...)
	}
	m.Gauge(moduleTests, "duration_ms", dur.Milliseconds(), tags...)
}

// Summary publishes the totals of a finished run
func (m *Manager) Summary(ran, passed, failed int64) {
	if m == nil {
		return
	}
	m.Gauge(moduleRun, "ran", ran, m.runTags...)
	m.Gauge(moduleRun, "passed", passed, m.runTags...)
	m.Gauge(moduleRun, "failed", failed, m.runTags...)
}

// Increment increments the key by one
func (m *Manager) Increment(module, key string, tags ...Tag) {
	m.Add(module, key, 1, tags...)
}

// Add adds value to key
func (m *Manager) Add(module, key string, value int64, tags ...Tag) {
	if m == nil || m.ctx.Err() != nil {
		return
	}

	d := datapoint{
		module: module,
		key:    key,
		value:  value,
		tags:   tags,
	}

	select {
	case m.addDataChan <- d:
	default:
		// channel full, drop the updates
	}
}

// Gauge sets key to value
func (m *Manager) Gauge(module, key string, value int64, tags ...Tag) {
	if m == nil || m.ctx.Err() != nil {
		return
	}

	d := datapoint{
		module: module,
		key:    key,
		value:  value,
		tags:   tags,
	}

	select {
	case m.gaugeDataChan <- d:
	default:
		// channel full, drop the updates
	}
}

// Close closes metrics channels, waits for data to complete, closes all plugins
func (m *Manager) Close() {
	if m == nil {
		return
	}
	// drain the datapoint channels
	close(m.addDataChan)
	close(m.gaugeDataChan)
	m.wg.Wait()

	// close all publishers
	for _, p := range m.publishers {
		p.Close()
	}
}

// publisher is the interface for interacting with the metrics plugins
type publisher interface {
	Add(module, key string, value int64, tags ...Tag)
	Gauge(module, key string, value int64, tags ...Tag)
	Close()
}

func (m *Manager) addForwarder(addChan <-chan datapoint) {
	for data := range addChan {
		for _, s := range m.publishers {
			s.Add(data.module, data.key, data.value, data.tags...)
		}
	}
	m.wg.Done()
}

func (m *Manager) gaugeForwarder(gaugeChan <-chan datapoint) {
	for data := range gaugeChan {
		for _, s := range m.publishers {
			s.Gauge(data.module, data.key, data.value, data.tags...)
		}
	}
	m.wg.Done()
}

type datapoint struct {
	module string
	key    string
	value  int64
	tags   []Tag
}
