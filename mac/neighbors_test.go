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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/wlansim/dcfsim/types"
)

var testRates = []float64{1e6, 2e6, 5.5e6, 11e6}
var testThresholds = []float64{6, 9, 12}

func TestNeighborRateLadder(t *testing.T) {
	table := NewNeighborRateTable(4, time.Second, testRates, testThresholds)

	table.Observe(1, 0, 0)
	table.Observe(2, 7, 0)
	table.Observe(3, 9, 0)
	table.Observe(4, 20, 0)
	assert.Equal(t, 1e6, table.LookupRate(1, 0, 42))
	assert.Equal(t, 2e6, table.LookupRate(2, 0, 42))
	assert.Equal(t, 2e6, table.LookupRate(3, 0, 42))
	assert.Equal(t, 11e6, table.LookupRate(4, 0, 42))
	assert.Equal(t, 42.0, table.LookupRate(5, 0, 42))
}

func TestNeighborMaxAge(t *testing.T) {
	table := NewNeighborRateTable(4, time.Second, testRates, testThresholds)
	table.Observe(1, 20, 0)

	assert.Equal(t, 11e6, table.LookupRate(1, SimTime(0).Add(time.Second), 1e6))
	assert.Equal(t, 1e6, table.LookupRate(1, SimTime(0).Add(time.Second+1), 1e6))

	// hearing the neighbor again refreshes the entry
	table.Observe(1, 10, SimTime(0).Add(time.Second+1))
	assert.Equal(t, 5.5e6, table.LookupRate(1, SimTime(0).Add(time.Second+1), 1e6))
	assert.Equal(t, 1, table.Len())
}

func TestNeighborEvictsOldest(t *testing.T) {
	table := NewNeighborRateTable(2, time.Second, testRates, testThresholds)
	table.Observe(1, 20, 10)
	table.Observe(2, 20, 5)
	table.Observe(3, 20, 20)

	assert.Equal(t, 2, table.Len())
	_, ok := table.Get(2)
	assert.False(t, ok)
	_, ok = table.Get(1)
	assert.True(t, ok)
	e, ok := table.Get(3)
	assert.True(t, ok)
	assert.Equal(t, InvalidSeqCtrl, e.LastSeqCtrl)
}

func TestNeighborDuplicates(t *testing.T) {
	table := NewNeighborRateTable(2, time.Second, testRates, testThresholds)

	assert.False(t, table.IsDuplicate(1, 5, true), "unknown neighbors never yield duplicates")

	table.Observe(1, 20, 0)
	assert.False(t, table.IsDuplicate(1, 5, false))
	assert.True(t, table.IsDuplicate(1, 5, true))
	assert.False(t, table.IsDuplicate(1, 5, false))
	assert.False(t, table.IsDuplicate(1, 6, true))
	assert.True(t, table.IsDuplicate(1, 6, true))
}

func TestNeighborTableSingleEntry(t *testing.T) {
	assert.Panics(t, func() { NewNeighborRateTable(0, time.Second, testRates, testThresholds) })

	table := NewNeighborRateTable(1, time.Second, testRates, testThresholds)
	table.Observe(1, 20, 0)
	assert.False(t, table.IsDuplicate(1, 9, false))
	assert.True(t, table.IsDuplicate(1, 9, true))

	table.Observe(2, 20, 10)
	assert.Equal(t, 1, table.Len())
	_, ok := table.Get(1)
	assert.False(t, ok)
	assert.False(t, table.IsDuplicate(2, 3, false))
	assert.True(t, table.IsDuplicate(2, 3, true))
}
