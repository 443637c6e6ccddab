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
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/versity/s3tests/config"
)

var (
	configPath       string
	debug            bool
	hostStyle        bool
	parallel         bool
	statsdServers    string
	dogStatsdServers string
)

var (
	// Version is the latest tag (set within Makefile)
	Version = "git"
	// Build is the commit hash (set within Makefile)
	Build = "norev"
	// BuildTime is the date/time of build (set within Makefile)
	BuildTime = "none"
)

func main() {
	setupSignalHandler()

	app := initApp()
	app.Commands = initCommands()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sigDone
		fmt.Fprintf(os.Stderr, "terminating signal caught, stopping tests\n")
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func initApp() *cli.App {
	return &cli.App{
		Name:  "s3tests",
		Usage: "Run S3 conformance tests against an object storage server.",
		Description: `s3tests exercises the S3 REST API of the server described in the
config file. Every bucket it creates shares a random per run prefix and
is removed when the run ends.`,
		Action: func(ctx *cli.Context) error {
			return ctx.App.Command("help").Run(ctx)
		},
		Flags: initFlags(),
	}
}

func initFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "version",
			Usage:   "list s3tests version",
			Aliases: []string{"v"},
			Action: func(*cli.Context, bool) error {
				fmt.Println("Version  :", Version)
				fmt.Println("Build    :", Build)
				fmt.Println("BuildTime:", BuildTime)
				os.Exit(0)
				return nil
			},
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to the test config file (toml, yaml or json)",
			EnvVars:     []string{config.EnvConfig},
			Aliases:     []string{"c"},
			Destination: &configPath,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug output of requests and responses",
			Aliases:     []string{"d"},
			Destination: &debug,
		},
		&cli.BoolFlag{
			Name:        "host-style",
			Usage:       "use host-style bucket addressing",
			Destination: &hostStyle,
		},
		&cli.BoolFlag{
			Name:        "parallel",
			Usage:       "run the tests of a group concurrently",
			Aliases:     []string{"p"},
			Destination: &parallel,
		},
		&cli.StringFlag{
			Name:        "statsd-servers",
			Usage:       "comma separated list of statsd servers to publish test results to",
			EnvVars:     []string{"S3TEST_STATSD_SERVERS"},
			Destination: &statsdServers,
		},
		&cli.StringFlag{
			Name:        "dogstatsd-servers",
			Usage:       "comma separated list of dogstatsd servers to publish test results to",
			EnvVars:     []string{"S3TEST_DOGSTATSD_SERVERS"},
			Destination: &dogStatsdServers,
		},
	}
}
