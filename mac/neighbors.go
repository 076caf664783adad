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
	"time"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

// NeighborEntry is what the MAC remembers about a peer it has heard.
type NeighborEntry struct {
	Addr        MacAddr
	LastSeen    SimTime
	Bitrate     float64
	LastSeqCtrl uint16
}

// NeighborRateTable is a bounded cache of peers, used for bitrate selection and duplicate
// suppression. When full, the entry heard longest ago is replaced.
type NeighborRateTable struct {
	size       int
	maxAge     time.Duration
	rates      []float64
	thresholds []float64
	entries    []NeighborEntry
}

// NewNeighborRateTable creates a table of the given size, which must be at least 1. rates is the
// ascending bitrate ladder and snrThresholdsDb[i] the SNR that must be exceeded to use rates[i+1].
func NewNeighborRateTable(size int, maxAge time.Duration, rates []float64, snrThresholdsDb []float64) *NeighborRateTable {
	logger.AssertTrue(size >= 1, "neighbor table size %d", size)
	return &NeighborRateTable{
		size:       size,
		maxAge:     maxAge,
		rates:      rates,
		thresholds: snrThresholdsDb,
		entries:    make([]NeighborEntry, 0, size),
	}
}

func (t *NeighborRateTable) rateForSnr(snrDb float64) float64 {
	br := t.rates[0]
	for i, th := range t.thresholds {
		if snrDb > th {
			br = t.rates[i+1]
		}
	}
	return br
}

// Observe records that addr was heard at now with the given link quality.
func (t *NeighborRateTable) Observe(addr MacAddr, snrDb float64, now SimTime) {
	br := t.rateForSnr(snrDb)
	if e := t.find(addr); e != nil {
		if now > e.LastSeen {
			e.LastSeen = now
		}
		e.Bitrate = br
		return
	}

	entry := NeighborEntry{
		Addr:        addr,
		LastSeen:    now,
		Bitrate:     br,
		LastSeqCtrl: InvalidSeqCtrl,
	}
	if len(t.entries) < t.size {
		t.entries = append(t.entries, entry)
	} else {
		t.entries[t.oldest()] = entry
	}
}

// LookupRate returns the cached bitrate for addr if it was heard within the max age, or def.
func (t *NeighborRateTable) LookupRate(addr MacAddr, now SimTime, def float64) float64 {
	if e := t.find(addr); e != nil && now.Sub(e.LastSeen) <= t.maxAge {
		return e.Bitrate
	}
	return def
}

// IsDuplicate reports whether a DATA frame is a retransmission of the last one delivered from addr.
// A frame that is not a duplicate becomes the new reference for addr.
func (t *NeighborRateTable) IsDuplicate(addr MacAddr, seq uint16, retry bool) bool {
	e := t.find(addr)
	if e == nil {
		return false
	}
	if retry && e.LastSeqCtrl == seq {
		return true
	}
	e.LastSeqCtrl = seq
	return false
}

// Get returns a copy of the entry for addr.
func (t *NeighborRateTable) Get(addr MacAddr) (NeighborEntry, bool) {
	if e := t.find(addr); e != nil {
		return *e, true
	}
	return NeighborEntry{}, false
}

func (t *NeighborRateTable) Len() int {
	return len(t.entries)
}

func (t *NeighborRateTable) find(addr MacAddr) *NeighborEntry {
	for i := range t.entries {
		if t.entries[i].Addr == addr {
			return &t.entries[i]
		}
	}
	return nil
}

func (t *NeighborRateTable) oldest() int {
	idx := 0
	for i := range t.entries {
		if t.entries[i].LastSeen < t.entries[idx].LastSeen {
			idx = i
		}
	}
	return idx
}
