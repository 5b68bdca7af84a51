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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudwego/peephole/internal/passes/zerosub"
	"github.com/cloudwego/peephole/ir"
)

type funcPass func(fn *ir.Func) bool

func (self funcPass) Apply(fn *ir.Func) bool {
	return self(fn)
}

func nop(*ir.Func) bool {
	return false
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Descriptor{Name: "zerosub", Pass: zerosub.ZeroSub{}}))
	require.Error(t, reg.Register(Descriptor{Name: "", Pass: funcPass(nop)}))
	require.Error(t, reg.Register(Descriptor{Name: "nil"}))

	err := reg.Register(Descriptor{Name: "zerosub", Pass: funcPass(nop)})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicatePass))
	require.Len(t, reg.Passes(), 1)

	d, ok := reg.Lookup("zerosub")
	require.True(t, ok)
	require.Equal(t, zerosub.ZeroSub{}, d.Pass)
	_, ok = reg.Lookup("missing")
	require.False(t, ok)
}

func TestRegistry_Order(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Descriptor{Name: "c", Phase: OptimizerLast, Pass: funcPass(nop)}))
	require.NoError(t, reg.Register(Descriptor{Name: "a", Phase: EarlyAsPossible, Pass: funcPass(nop)}))
	require.NoError(t, reg.Register(Descriptor{Name: "d", Phase: ScalarOptimizerLate, Pass: funcPass(nop)}))
	require.NoError(t, reg.Register(Descriptor{Name: "b", Phase: EarlyAsPossible, Pass: funcPass(nop)}))

	var names []string
	for _, d := range reg.Passes() {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"a", "b", "d", "c"}, names)
}

func TestPhase_String(t *testing.T) {
	require.Equal(t, "early-as-possible", EarlyAsPossible.String())
	require.Equal(t, "scalar-optimizer-late", ScalarOptimizerLate.String())
	require.Equal(t, "optimizer-last", OptimizerLast.String())
	require.Equal(t, "phase(9)", Phase(9).String())
}

func TestError(t *testing.T) {
	inner := errors.New("broken")
	err := error(&Error{Pass: "p", Func: "f", Err: inner})
	require.Equal(t, "pass p on function f: broken", err.Error())
	require.True(t, errors.Is(err, inner))
}
