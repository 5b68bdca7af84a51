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
	"github.com/cloudwego/peephole/internal/opts"
	"github.com/cloudwego/peephole/internal/pass"
	"github.com/cloudwego/peephole/internal/passes/zerosub"
	"github.com/cloudwego/peephole/ir"
)

type (
	// Registry holds the passes a pipeline may run.
	Registry = pass.Registry

	// Descriptor describes a registered pass.
	Descriptor = pass.Descriptor

	// Phase is the pipeline extension point a pass runs at.
	Phase = pass.Phase

	Result     = pass.Result
	FuncResult = pass.FuncResult
)

const (
	EarlyAsPossible     = pass.EarlyAsPossible
	ScalarOptimizerLate = pass.ScalarOptimizerLate
	OptimizerLast       = pass.OptimizerLast
)

// ZeroSubName is the registered name of the zero-subtraction rule.
const ZeroSubName = "zerosub"

// NewRegistry creates an empty pass registry.
func NewRegistry() *Registry {
	return pass.NewRegistry()
}

// Register adds the zero-subtraction rule to r. It is meant to be called
// from the host's setup code.
func Register(r *Registry) error {
	return r.Register(Descriptor{
		Name:  ZeroSubName,
		Desc:  "Zero Subtraction Elimination",
		Phase: EarlyAsPossible,
		Pass:  zerosub.ZeroSub{},
	})
}

// OptimizeFunction removes every subtraction of fn whose operand is the
// constant zero and reports whether fn was modified.
func OptimizeFunction(fn *ir.Func) bool {
	return zerosub.OptimizeFunction(fn)
}

// Optimize runs the passes of a registry populated by Register over every
// function of m.
func Optimize(m *ir.Module, options ...Option) (Result, error) {
	reg := NewRegistry()
	if err := Register(reg); err != nil {
		return Result{}, err
	}
	return Run(reg, m, options...)
}

// Run runs the passes registered in reg over every function of m.
func Run(reg *Registry, m *ir.Module, options ...Option) (Result, error) {
	mo := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&mo)
	}
	return pass.NewManager(reg, mo).Run(m)
}
