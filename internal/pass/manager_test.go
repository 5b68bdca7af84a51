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
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/peephole/internal/opts"
	"github.com/cloudwego/peephole/internal/passes/zerosub"
	"github.com/cloudwego/peephole/ir"
)

func trivialFunc(name string, n int) *ir.Func {
	p := ir.CreateBuilder(name, "x")
	v := ir.Value(p.Param(0))
	for i := 0; i < n; i++ {
		v = p.SUB(v, ir.Int(0))
		v = p.ADD(v, ir.Int(int64(i)))
	}
	p.RET(v)
	return p.Build()
}

func newTestManager(t *testing.T, o opts.Options, passes ...Descriptor) (*Manager, *test.Hook) {
	lg, hook := test.NewNullLogger()
	lg.SetLevel(logrus.DebugLevel)
	o.Logger = lg

	/* zerosub first, then the extra ones */
	reg := NewRegistry()
	require.NoError(t, reg.Register(Descriptor{Name: "zerosub", Desc: "Zero Subtraction Elimination", Pass: zerosub.ZeroSub{}}))
	for _, d := range passes {
		require.NoError(t, reg.Register(d))
	}
	return NewManager(reg, o), hook
}

func TestManager_RunFunc(t *testing.T) {
	m, hook := newTestManager(t, opts.Options{MaxIterations: 4, Verify: true})
	fn := trivialFunc("f", 3)
	r, err := m.RunFunc(fn)
	require.NoError(t, err)
	require.Equal(t, FuncResult{Func: "f", Changed: true, Rounds: 2, Removed: 3}, r)
	require.NoError(t, ir.Verify(fn))

	last := hook.LastEntry()
	require.NotNil(t, last)
	require.Equal(t, logrus.InfoLevel, last.Level)
	require.Equal(t, "function optimized", last.Message)
	require.Equal(t, 3, last.Data["removed"])
	require.Equal(t, "Zero Subtraction Elimination", hook.AllEntries()[0].Message)
	require.Equal(t, "zerosub", hook.AllEntries()[0].Data["pass"])
}

func TestManager_SingleRound(t *testing.T) {
	m, _ := newTestManager(t, opts.Options{})
	r, err := m.RunFunc(trivialFunc("f", 2))
	require.NoError(t, err)
	require.Equal(t, 1, r.Rounds)
	require.True(t, r.Changed)
	require.Equal(t, 2, r.Removed)
}

func TestManager_Unchanged(t *testing.T) {
	m, hook := newTestManager(t, opts.Options{MaxIterations: 8})
	r, err := m.RunFunc(trivialFunc("f", 0))
	require.NoError(t, err)
	require.Equal(t, FuncResult{Func: "f", Rounds: 1}, r)
	for _, e := range hook.AllEntries() {
		require.Equal(t, logrus.DebugLevel, e.Level)
	}
}

func TestManager_Fixpoint(t *testing.T) {
	var runs int64
	late := funcPass(func(fn *ir.Func) bool {
		return atomic.AddInt64(&runs, 1) < 3
	})
	m, _ := newTestManager(t, opts.Options{MaxIterations: 10}, Descriptor{Name: "late", Phase: OptimizerLast, Pass: late})
	r, err := m.RunFunc(trivialFunc("f", 1))
	require.NoError(t, err)
	require.Equal(t, 3, r.Rounds)
	require.Equal(t, int64(3), runs)
}

func TestManager_Disabled(t *testing.T) {
	m, _ := newTestManager(t, opts.Options{Passes: []string{"other"}})
	fn := trivialFunc("f", 2)
	r, err := m.RunFunc(fn)
	require.NoError(t, err)
	require.False(t, r.Changed)
	require.Equal(t, 5, fn.NumInstrs())
}

func TestManager_VerifyFailure(t *testing.T) {
	breaker := funcPass(func(fn *ir.Func) bool {
		fn.Blocks[0].Last().EraseFromParent()
		return true
	})
	m, _ := newTestManager(t, opts.Options{Verify: true}, Descriptor{Name: "breaker", Phase: OptimizerLast, Pass: breaker})
	_, err := m.RunFunc(trivialFunc("f", 1))
	require.Error(t, err)

	var pe *Error
	var ve *ir.VerifyError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "breaker", pe.Pass)
	require.Equal(t, "f", pe.Func)
	require.True(t, errors.As(err, &ve))
	require.Contains(t, ve.Reason, "does not terminate")
}

func TestManager_Run(t *testing.T) {
	for _, par := range []int{1, 4} {
		mod := &ir.Module{Name: "m"}
		for i := 0; i < 16; i++ {
			mod.Funcs = append(mod.Funcs, trivialFunc(fmt.Sprintf("f%d", i), i%3))
		}

		m, _ := newTestManager(t, opts.Options{Parallelism: par, Verify: true})
		r, err := m.Run(mod)
		require.NoError(t, err)
		require.True(t, r.Changed)
		require.Len(t, r.Funcs, 16)
		for i, fr := range r.Funcs {
			require.Equal(t, fmt.Sprintf("f%d", i), fr.Func)
			require.Equal(t, i%3 != 0, fr.Changed)
			require.Equal(t, i%3, fr.Removed)
		}
	}
}

func TestManager_RunUnchanged(t *testing.T) {
	mod := &ir.Module{Name: "m", Funcs: []*ir.Func{trivialFunc("a", 0), trivialFunc("b", 0)}}
	m, _ := newTestManager(t, opts.Options{Parallelism: 2})
	r, err := m.Run(mod)
	require.NoError(t, err)
	require.False(t, r.Changed)
}

func TestManager_RunPanic(t *testing.T) {
	boom := funcPass(func(fn *ir.Func) bool {
		if fn.Name == "f3" {
			panic("boom")
		}
		return false
	})
	mod := &ir.Module{Name: "m"}
	for i := 0; i < 8; i++ {
		mod.Funcs = append(mod.Funcs, trivialFunc(fmt.Sprintf("f%d", i), 1))
	}
	m, _ := newTestManager(t, opts.Options{Parallelism: 4}, Descriptor{Name: "boom", Pass: boom})
	require.PanicsWithValue(t, "function f3: boom", func() { _, _ = m.Run(mod) })
}

func TestManager_RunError(t *testing.T) {
	breaker := funcPass(func(fn *ir.Func) bool {
		if fn.Name != "f1" && fn.Name != "f3" {
			return false
		}
		fn.Blocks[0].Last().EraseFromParent()
		return true
	})
	for _, par := range []int{1, 3} {
		mod := &ir.Module{Name: "m"}
		for i := 0; i < 5; i++ {
			mod.Funcs = append(mod.Funcs, trivialFunc(fmt.Sprintf("f%d", i), 1))
		}

		m, _ := newTestManager(t, opts.Options{Parallelism: par, Verify: true}, Descriptor{Name: "breaker", Phase: OptimizerLast, Pass: breaker})
		r, err := m.Run(mod)
		var pe *Error
		require.True(t, errors.As(err, &pe))
		require.Equal(t, "f1", pe.Func)

		/* the functions after the failing ones were still processed */
		require.True(t, r.Changed)
		for _, i := range []int{0, 2, 4} {
			require.Equal(t, FuncResult{Func: fmt.Sprintf("f%d", i), Changed: true, Rounds: 1, Removed: 1}, r.Funcs[i])
			require.NoError(t, ir.Verify(mod.Funcs[i]))
		}
	}
}
