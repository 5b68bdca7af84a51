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
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger, configured by PEEPHOLE_LOG_LEVEL.
var Logger = mustNewLogger(os.Getenv("PEEPHOLE_LOG_LEVEL"))

// NewLogger creates a stderr text logger at the given level. An empty level
// means "warn".
func NewLogger(level string) (*logrus.Logger, error) {
	lv := logrus.WarnLevel

	/* parse the level if specified */
	if level != "" {
		var err error
		if lv, err = logrus.ParseLevel(level); err != nil {
			return nil, err
		}
	}

	/* construct the logger */
	lg := logrus.New()
	lg.SetOutput(os.Stderr)
	lg.SetLevel(lv)
	lg.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return lg, nil
}

func mustNewLogger(level string) *logrus.Logger {
	if lg, err := NewLogger(level); err != nil {
		panic("peephole: invalid value for PEEPHOLE_LOG_LEVEL")
	} else {
		return lg
	}
}
