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

package pass

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudwego/peephole/ir"
)

// Pass is a transformation over a single function. Apply reports whether
// the function was modified.
type Pass interface {
	Apply(fn *ir.Func) bool
}

// Phase is the extension point of the pipeline a pass is scheduled at.
type Phase uint8

const (
	EarlyAsPossible Phase = iota
	ScalarOptimizerLate
	OptimizerLast
)

func (self Phase) String() string {
	switch self {
	case EarlyAsPossible:
		return "early-as-possible"
	case ScalarOptimizerLate:
		return "scalar-optimizer-late"
	case OptimizerLast:
		return "optimizer-last"
	default:
		return fmt.Sprintf("phase(%d)", uint8(self))
	}
}

type Descriptor struct {
	Name  string
	Desc  string
	Phase Phase
	Pass  Pass
}

// Error occures when a pass leaves a function in an invalid state.
type Error struct {
	Pass string
	Func string
	Err  error
}

func (self Error) Error() string {
	return fmt.Sprintf("pass %s on function %s: %v", self.Pass, self.Func, self.Err)
}

func (self Error) Unwrap() error {
	return self.Err
}

var ErrDuplicatePass = errors.New("pass already registered")

// Registry holds the passes known to a pipeline. Passes are registered
// explicitly during setup; nothing is added at package initialization.
type Registry struct {
	mu     sync.RWMutex
	passes []Descriptor
}

func NewRegistry() *Registry {
	return new(Registry)
}

func (self *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return errors.New("pass name must not be empty")
	} else if d.Pass == nil {
		return fmt.Errorf("pass %s: nil implementation", d.Name)
	}

	self.mu.Lock()
	defer self.mu.Unlock()

	for _, p := range self.passes {
		if p.Name == d.Name {
			return fmt.Errorf("%s: %w", d.Name, ErrDuplicatePass)
		}
	}
	self.passes = append(self.passes, d)
	return nil
}

func (self *Registry) Lookup(name string) (Descriptor, bool) {
	self.mu.RLock()
	defer self.mu.RUnlock()

	for _, p := range self.passes {
		if p.Name == name {
			return p, true
		}
	}
	return Descriptor{}, false
}

// Passes returns the registered passes ordered by phase, keeping the
// registration order within a phase.
func (self *Registry) Passes() []Descriptor {
	self.mu.RLock()
	ret := append([]Descriptor(nil), self.passes...)
	self.mu.RUnlock()

	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Phase < ret[j].Phase
	})
	return ret
}
