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

package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"
	"github.com/versity/s3tests/config"
	"github.com/versity/s3tests/debuglogger"
	"github.com/versity/s3tests/fixture"
	"github.com/versity/s3tests/metrics"
	"github.com/versity/s3tests/tests/integration"
)

const teardownTimeout = 10 * time.Minute

var nukePrefix string

type testFunc func(*integration.TestState)

func initCommands() []*cli.Command {
	commands := []*cli.Command{
		{
			Name:        "full-flow",
			Usage:       "Runs every test group",
			Description: `Runs all the available tests against the configured server.`,
			Action:      getAction(integration.TestFullFlow),
		},
	}

	for _, g := range integration.Groups() {
		commands = append(commands, &cli.Command{
			Name:   g.Name,
			Usage:  fmt.Sprintf("Runs the %v tests", g.Usage),
			Action: getAction(g.Run),
		})
	}

	return append(commands,
		&cli.Command{
			Name:      "run",
			Usage:     "Runs the named tests",
			ArgsUsage: "<TestName>...",
			Action:    runNamed,
		},
		&cli.Command{
			Name:   "list",
			Usage:  "Lists the names of all tests",
			Action: listTests,
		},
		&cli.Command{
			Name:  "nuke",
			Usage: "Removes every bucket whose name contains the prefix",
			Description: `Runs the cleanup of a finished run on its own. Use it for the
buckets an aborted run left behind.`,
			Action: nuke,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "prefix",
					Usage:       "bucket name prefix of the run to remove",
					Required:    true,
					Destination: &nukePrefix,
				},
			},
		},
	)
}

func getAction(tf testFunc) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		return runTests(ctx.Context, tf)
	}
}

func runNamed(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no test names given, see the list command")
	}

	tests := integration.GetIntTests()
	var selected []integration.IntTest
	for _, name := range ctx.Args().Slice() {
		fn, ok := tests[name]
		if !ok {
			return fmt.Errorf("unknown test %q", name)
		}
		selected = append(selected, fn)
	}

	return runTests(ctx.Context, func(ts *integration.TestState) {
		for _, fn := range selected {
			ts.Run(fn)
		}
	})
}

func listTests(*cli.Context) error {
	for _, name := range slices.Sorted(maps.Keys(integration.GetIntTests())) {
		fmt.Println(name)
	}
	return nil
}

func setupDebug(runID string) {
	if debug {
		debuglogger.SetDebugEnabled()
	}
	debuglogger.WithRunID(runID)
}

func newS3Conf(cfg *config.Config, mgr *metrics.Manager) *integration.S3Conf {
	opts := []integration.Option{
		integration.WithMetrics(mgr),
	}
	if debug {
		opts = append(opts, integration.WithDebug())
	}
	if hostStyle {
		opts = append(opts, integration.WithHostStyle())
	}
	return integration.NewS3Conf(cfg, opts...)
}

// runTests drives one full run: load the config, set up the bucket
// fixture, run the tests and tear everything down again
func runTests(ctx context.Context, tf testFunc) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	runID := ulid.Make().String()
	setupDebug(runID)

	mgr, err := metrics.NewManager(ctx, metrics.Config{
		StatsdServers:    statsdServers,
		DogStatsdServers: dogStatsdServers,
		RunID:            runID,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer mgr.Close()

	s := newS3Conf(cfg, mgr)
	fx := s.Fixture()
	if err := fx.Setup(ctx); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	debuglogger.Infof("run %v started, bucket prefix %v", runID, fx.Prefix())

	integration.ResetCounters()
	ts := integration.NewTestState(ctx, s, parallel)
	tf(ts)
	ts.Wait()

	// the run context may be canceled already, cleanup still has to run
	tctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()
	teardownErr := fx.Teardown(tctx)

	ran := integration.RunCount.Load()
	passed := integration.PassCount.Load()
	failed := integration.FailCount.Load()
	mgr.Summary(ran, passed, failed)

	fmt.Println()
	fmt.Println("RAN:", ran, "PASS:", passed, "FAIL:", failed)

	if teardownErr != nil {
		return fmt.Errorf("teardown: %w", teardownErr)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("test failed with %v errors", failed), 1)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}

func nuke(ctx *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupDebug(ulid.Make().String())

	s := newS3Conf(cfg, nil)
	if err := fixture.NewCleaner(s.GetClient()).Nuke(ctx.Context, nukePrefix); err != nil {
		return err
	}
	fmt.Printf("removed all buckets matching %q\n", nukePrefix)
	return nil
}
