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
    `github.com/cloudwego/peephole/internal/opts`
    `github.com/cloudwego/peephole/internal/pass`
    `github.com/cloudwego/peephole/ir`
)

type (
    // VerifyError occures when a function violates an IR invariant.
    VerifyError = ir.VerifyError

    // ConfigError occures when a configuration file cannot be loaded.
    ConfigError = opts.ConfigError

    // PassError wraps the error of a pass together with the pass and
    // function it happened in.
    PassError = pass.Error
)

// ErrDuplicatePass is returned when registering a pass name twice.
var ErrDuplicatePass = pass.ErrDuplicatePass
