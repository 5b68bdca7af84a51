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

package opts

import (
	"github.com/sirupsen/logrus"
)

type Options struct {
	MaxIterations int
	Parallelism   int
	Verify        bool
	Passes        []string
	Logger        *logrus.Logger
}

// Enabled reports whether the pass called name should run. An empty pass
// list, or one containing "all", enables everything.
func (self *Options) Enabled(name string) bool {
	if len(self.Passes) == 0 {
		return true
	}
	for _, p := range self.Passes {
		if p == name || p == "all" {
			return true
		}
	}
	return false
}

func (self *Options) Log() *logrus.Logger {
	if self.Logger != nil {
		return self.Logger
	}
	return Logger
}

func GetDefaultOptions() Options {
	return Options{
		MaxIterations: MaxIterations,
		Parallelism:   Parallelism,
		Verify:        Verify,
	}
}
