// Copyright 2024 Versity Software
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
	"github.com/smira/go-statsd"
)

// statsdPublisher sends test results to a plain statsd server using
// influxdb style tags
type statsdPublisher struct {
	c *statsd.Client
}

func newStatsd(server, host string) *statsdPublisher {
	return &statsdPublisher{
		c: statsd.NewClient(server,
			statsd.MaxPacketSize(1400),
			statsd.MetricPrefix(namespace+"."),
			statsd.TagStyle(statsd.TagFormatInfluxDB),
			statsd.DefaultTags(statsd.StringTag("host", host)),
		),
	}
}

func statsdTags(tags []Tag) []statsd.Tag {
	out := make([]statsd.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, statsd.StringTag(t.Key, t.Value))
	}
	return out
}

func (s *statsdPublisher) Add(module, key string, value int64, tags ...Tag) {
	s.c.Incr(metricName(module, key), value, statsdTags(tags)...)
}

func (s *statsdPublisher) Gauge(module, key string, value int64, tags ...Tag) {
	s.c.Gauge(metricName(module, key), value, statsdTags(tags)...)
}

// Close flushes pending packets
func (s *statsdPublisher) Close() {
	s.c.Close()
}
