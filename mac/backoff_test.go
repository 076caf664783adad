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

package mac

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentionWindow(t *testing.T) {
	b := NewBackoffEngine(31, 1023, 20*time.Microsecond, rand.New(rand.NewSource(1)))
	assert.Equal(t, 31, b.ContentionWindow(0))
	assert.Equal(t, 63, b.ContentionWindow(1))
	assert.Equal(t, 127, b.ContentionWindow(2))
	assert.Equal(t, 1023, b.ContentionWindow(5))
	assert.Equal(t, 1023, b.ContentionWindow(6))
	assert.Equal(t, 1023, b.ContentionWindow(100))

	b = NewBackoffEngine(15, 1023, 9*time.Microsecond, rand.New(rand.NewSource(1)))
	assert.Equal(t, 15, b.ContentionWindow(0))
	assert.Equal(t, 511, b.ContentionWindow(5))
	assert.Equal(t, 1023, b.ContentionWindow(6))
}

func TestSampleBackoff(t *testing.T) {
	slot := 20 * time.Microsecond
	b := NewBackoffEngine(31, 1023, slot, rand.New(rand.NewSource(42)))

	seen := map[time.Duration]bool{}
	for i := 0; i < 2000; i++ {
		d := b.SampleBackoff(7)
		assert.True(t, d >= 0 && d <= 7*slot, "%v out of range", d)
		assert.Zero(t, d%slot)
		seen[d] = true
	}
	assert.Len(t, seen, 8)
	assert.Equal(t, time.Duration(0), b.SampleBackoff(0))
}

func TestSampleBackoffReproducible(t *testing.T) {
	b1 := NewBackoffEngine(31, 1023, time.Microsecond, rand.New(rand.NewSource(7)))
	b2 := NewBackoffEngine(31, 1023, time.Microsecond, rand.New(rand.NewSource(7)))
	for i := 0; i < 100; i++ {
		assert.Equal(t, b1.Sample(i%8), b2.Sample(i%8))
	}
}

func TestSuspend(t *testing.T) {
	slot := 20 * time.Microsecond
	difs := 50 * time.Microsecond
	b := NewBackoffEngine(31, 1023, slot, rand.New(rand.NewSource(1)))
	current := 10 * slot
	armed := difs + current

	// within the IFS nothing is consumed
	assert.Equal(t, current, b.Suspend(armed, 0, difs, current))
	assert.Equal(t, current, b.Suspend(armed, difs-time.Nanosecond, difs, current))

	// whole slots elapsed
	assert.Equal(t, current, b.Suspend(armed, difs, difs, current))
	assert.Equal(t, 7*slot, b.Suspend(armed, difs+3*slot, difs, current))

	// a partially elapsed slot is repeated
	assert.Equal(t, current, b.Suspend(armed, difs+time.Nanosecond, difs, current))
	assert.Equal(t, current-slot, b.Suspend(armed, difs+slot+time.Nanosecond, difs, current))
	assert.Equal(t, 8*slot, b.Suspend(armed, difs+2*slot+slot/2, difs, current))
	assert.Equal(t, slot, b.Suspend(armed, armed-time.Nanosecond, difs, current))

	assert.Equal(t, time.Duration(0), b.Suspend(armed, armed, difs, current))
	assert.Equal(t, time.Duration(0), b.Suspend(armed, armed+slot, difs, current))
}
