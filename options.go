/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package peephole

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cloudwego/peephole/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxIterations sets how many times the whole pipeline may be repeated
// over a function while it keeps changing.
//
// The default value of this option is "1", which runs every pass once and
// leaves rescheduling to the caller.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("peephole: invalid iteration count: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxIterations = n }
	}
}

// WithParallelism sets how many functions of a module are optimized
// concurrently. A single function is never shared between goroutines.
//
// The default value of this option is GOMAXPROCS.
func WithParallelism(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("peephole: invalid parallelism: %d", n))
	} else {
		return func(o *opts.Options) { o.Parallelism = n }
	}
}

// WithVerify enables IR verification after every pass that changed a
// function.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithPasses restricts the pipeline to the named passes. "all" enables
// every registered pass.
func WithPasses(names ...string) Option {
	return func(o *opts.Options) { o.Passes = append([]string(nil), names...) }
}

// WithLogger replaces the process logger for one run.
func WithLogger(lg *logrus.Logger) Option {
	return func(o *opts.Options) { o.Logger = lg }
}

// LoadOptions reads a TOML or YAML configuration file and returns an
// Option applying the keys it defines.
func LoadOptions(path string) (Option, error) {
	cfg, err := opts.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return cfg.Apply, nil
}

// SetMaxIterations sets the default round limit for all runs from now on.
//
// This value can also be configured with the `PEEPHOLE_MAX_ITERATIONS`
// environment variable.
//
// Returns the old opts.MaxIterations value.
func SetMaxIterations(n int) int {
	n, opts.MaxIterations = opts.MaxIterations, n
	return n
}

// SetParallelism sets the default parallelism for all runs from now on.
//
// This value can also be configured with the `PEEPHOLE_PARALLELISM`
// environment variable.
//
// Returns the old opts.Parallelism value.
func SetParallelism(n int) int {
	n, opts.Parallelism = opts.Parallelism, n
	return n
}
