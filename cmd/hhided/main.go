// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command hhided runs the daemon against stdin/stdout as the framed pipe
// pair spec.md §6 describes, the way samples/mount_memfs/mount.go wires a
// sample file system to the real mount machinery.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/jacobsa/timeutil"
	"github.com/sirupsen/logrus"

	"github.com/terrorizer1980/hh-ide-daemon/daemon"
	"github.com/terrorizer1980/hh-ide-daemon/errs"
	"github.com/terrorizer1980/hh-ide-daemon/query"
	"github.com/terrorizer1980/hh-ide-daemon/query/textqueries"
	"github.com/terrorizer1980/hh-ide-daemon/savedstate"
)

var (
	fStubsDir  = flag.String("stdlib_stubs", "", "Directory of standard-library stub files to materialize on init.")
	fLogFile   = flag.String("log_file", "", "Path to the daemon's rolling log file. Empty disables file logging.")
	fSavedBlob = flag.String("saved_state_blob", "", "Default saved-state blob path, used when Initialize supplies none.")
)

func main() {
	flag.Parse()

	logger := newLogger(*fLogFile)

	queries := query.Queries(textqueries.Impl{})

	d := daemon.NewDaemon(timeutil.RealClock(), queries)

	deps := daemon.Deps{
		Materializer:  daemon.DirStubMaterializer{Source: *fStubsDir},
		Collaborators: textqueries.Collaborators,
		Logger:        logger,
	}
	if *fSavedBlob != "" {
		deps.DefaultLoader = &savedstate.FileLoader{BlobPath: *fSavedBlob}
	}

	loop := daemon.NewLoop(d, deps, os.Stdin, os.Stdout)

	if err := loop.Run(context.Background()); err != nil {
		if errs.IsTransportFailure(err) {
			logger.WithError(err).Error("transport closed, exiting")
			os.Exit(1)
		}
		logger.WithError(err).Fatal("daemon loop exited with error")
	}
}

// newLogger builds the structured logger of SPEC_FULL.md §A.1: it writes
// to a rolling log file (previous run's log renamed to .old before the new
// one opens) when one is given and can be opened, and to stderr otherwise,
// at Info level until a Verbose request raises it.
func newLogger(path string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)

	if path == "" {
		return logger
	}

	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".old")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.WithError(err).Warn("could not create log directory")
		return logger
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		logger.WithError(err).Warn("could not open log file")
		return logger
	}

	logger.SetOutput(f)
	return logger
}
