// Copyright (c) 2024, The DCFSIM Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package progctx manages the lifetime of the simulator process: cancellation, the goroutines to
// wait for on exit, and cleanup functions run once on cancellation.
package progctx

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/logger"
)

// ProgCtx is the context of the program during its lifetime.
type ProgCtx struct {
	context.Context
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	lock     sync.Mutex
	routines map[string]int
	deferred []func()
}

// New creates a new ProgCtx from the parent context.
func New(parent context.Context) *ProgCtx {
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	return &ProgCtx{
		Context:  ctx,
		cancel:   cancel,
		routines: map[string]int{},
	}
}

// Cancel cancels the program context for the given reason and runs the deferred functions in
// reverse registration order. Only the first call has an effect.
func (ctx *ProgCtx) Cancel(reason interface{}) {
	ctx.lock.Lock()
	if ctx.Err() != nil {
		ctx.lock.Unlock()
		return
	}
	ctx.cancel()
	deferred := ctx.deferred
	ctx.deferred = nil
	ctx.lock.Unlock()

	if err, ok := reason.(error); ok {
		logger.TraceError("program exit: %v", err)
	} else {
		logger.Infof("program exit: %v", reason)
	}

	for i := len(deferred) - 1; i >= 0; i-- {
		deferred[i]()
	}
}

// Defer registers f to be called when the context is cancelled.
func (ctx *ProgCtx) Defer(f func()) {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()
	if ctx.Err() != nil {
		panic(errors.Errorf("can not Defer after the context is done"))
	}
	ctx.deferred = append(ctx.deferred, f)
}

// WaitAdd adds delta goroutines with the given name to wait for.
func (ctx *ProgCtx) WaitAdd(name string, delta int) {
	ctx.lock.Lock()
	ctx.routines[name] += delta
	ctx.lock.Unlock()

	ctx.wg.Add(delta)
}

// WaitDone notifies that a goroutine with the given name has finished.
func (ctx *ProgCtx) WaitDone(name string) {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()

	if ctx.routines[name] <= 0 {
		logger.Panicf("routine %s is not running, should not call WaitDone", name)
	}
	ctx.routines[name] -= 1
	ctx.wg.Done()
}

// WaitCount returns the number of goroutines to wait for.
func (ctx *ProgCtx) WaitCount() int {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()

	total := 0
	for _, c := range ctx.routines {
		total += c
	}
	return total
}

// Running returns the names of the goroutines still running, sorted.
func (ctx *ProgCtx) Running() []string {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()

	var names []string
	for name, c := range ctx.routines {
		if c > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Wait waits for all goroutines to finish.
func (ctx *ProgCtx) Wait() {
	logger.Debugf("program context waiting for routines: %v", ctx.Running())
	ctx.wg.Wait()
}
