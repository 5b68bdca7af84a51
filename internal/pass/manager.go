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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/sirupsen/logrus"

	"github.com/cloudwego/peephole/internal/opts"
	"github.com/cloudwego/peephole/ir"
)

var (
	FuncCount   int64
	RunCount    int64
	ChangeCount int64
)

type FuncResult struct {
	Func    string
	Changed bool
	Rounds  int
	Removed int
}

type Result struct {
	Changed bool
	Funcs   []FuncResult
}

// Manager runs the enabled passes of a registry over functions.
type Manager struct {
	opts   opts.Options
	passes []Descriptor
	log    *logrus.Logger
}

func NewManager(reg *Registry, o opts.Options) *Manager {
	ret := &Manager{
		opts: o,
		log:  o.Log(),
	}

	/* select the enabled passes */
	for _, d := range reg.Passes() {
		if o.Enabled(d.Name) {
			ret.passes = append(ret.passes, d)
		}
	}

	/* at least one round */
	if ret.opts.MaxIterations < 1 {
		ret.opts.MaxIterations = 1
	}
	return ret
}

// RunFunc runs the pipeline over fn, repeating it while something changed
// and the round limit is not reached.
func (self *Manager) RunFunc(fn *ir.Func) (FuncResult, error) {
	ret := FuncResult{Func: fn.Name}
	nins := fn.NumInstrs()

	for ret.Rounds < self.opts.MaxIterations {
		changed := false
		ret.Rounds++

		for _, d := range self.passes {
			self.log.WithFields(logrus.Fields{
				"func":  fn.Name,
				"pass":  d.Name,
				"round": ret.Rounds,
			}).Debug(d.Desc)

			/* run the pass */
			atomic.AddInt64(&RunCount, 1)
			if !d.Pass.Apply(fn) {
				continue
			}

			/* the function changed, verify if asked to */
			changed = true
			atomic.AddInt64(&ChangeCount, 1)
			if self.opts.Verify {
				if err := ir.Verify(fn); err != nil {
					if self.log.IsLevelEnabled(logrus.DebugLevel) {
						self.log.WithField("func", fn.Name).Debug(fn.Dump())
					}
					return ret, &Error{Pass: d.Name, Func: fn.Name, Err: err}
				}
			}
		}

		/* reached a fixed point */
		if !changed {
			break
		}
		ret.Changed = true
	}

	ret.Removed = nins - fn.NumInstrs()
	atomic.AddInt64(&FuncCount, 1)

	if ret.Changed {
		self.log.WithFields(logrus.Fields{
			"func":    fn.Name,
			"rounds":  ret.Rounds,
			"removed": ret.Removed,
		}).Info("function optimized")
	}
	return ret, nil
}

// Run processes every function of m. Each function is handled by exactly
// one goroutine; results are in module order. A failing function does not
// stop the others: every function is processed, and the error of the first
// failing function in module order is returned.
func (self *Manager) Run(m *ir.Module) (Result, error) {
	ret := Result{Funcs: make([]FuncResult, len(m.Funcs))}
	errs := make([]error, len(m.Funcs))

	/* run inline if there's nothing to parallelize */
	if self.opts.Parallelism <= 1 || len(m.Funcs) <= 1 {
		for i, fn := range m.Funcs {
			ret.Funcs[i], errs[i] = self.RunFunc(fn)
		}
		return ret.collect(errs)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var pv interface{}

	/* bounded worker pool, one task per function */
	pool := gopool.NewPool("peephole."+m.Name, int32(self.opts.Parallelism), gopool.NewConfig())
	for i, fn := range m.Funcs {
		i, fn := i, fn
		wg.Add(1)
		pool.Go(func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					mu.Lock()
					if pv == nil {
						pv = fmt.Sprintf("function %s: %v", fn.Name, v)
					}
					mu.Unlock()
				}
			}()
			ret.Funcs[i], errs[i] = self.RunFunc(fn)
		})
	}

	/* panics belong to the caller */
	wg.Wait()
	if pv != nil {
		panic(pv)
	}
	return ret.collect(errs)
}

func (self Result) collect(errs []error) (Result, error) {
	var err error
	for i, r := range self.Funcs {
		self.Changed = self.Changed || r.Changed
		if err == nil {
			err = errs[i]
		}
	}
	return self, err
}
