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

package event

import (
	"container/heap"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

type eventHeap []*Event

func (h eventHeap) Len() int {
	return len(h)
}

// Less orders by timestamp; events with equal timestamps are kept in insertion order.
func (h eventHeap) Less(i, j int) bool {
	if h[i].Timestamp != h[j].Timestamp {
		return h[i].Timestamp < h[j].Timestamp
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	a, b := h[i], h[j]
	if a.index != i || b.index != j {
		logger.Panicf("wrong index")
	}

	h[i], h[j] = b, a
	h[i].index, h[j].index = i, j
}

func (h *eventHeap) Push(x interface{}) {
	e := x.(*Event)
	*h = append(*h, e)
	e.index = len(*h) - 1
}

func (h *eventHeap) Pop() (elem interface{}) {
	n := len(*h)
	e := (*h)[n-1]
	(*h)[n-1] = nil
	*h = (*h)[:n-1]
	e.index = -1
	return e
}

// EventQueue is the time-ordered queue of pending simulation events.
type EventQueue struct {
	q   eventHeap
	seq uint64
}

func NewEventQueue() *EventQueue {
	eq := &EventQueue{
		q: eventHeap{},
	}
	heap.Init(&eq.q)
	return eq
}

// Add queues the event. An event can be in the queue only once.
func (eq *EventQueue) Add(e *Event) {
	logger.AssertFalse(e.IsQueued(), "event already queued: %v", e)
	eq.seq++
	e.seq = eq.seq
	heap.Push(&eq.q, e)
}

// Remove takes a queued event out of the queue.
func (eq *EventQueue) Remove(e *Event) {
	logger.AssertTrue(e.IsQueued() && e.index < len(eq.q) && eq.q[e.index] == e, "event not queued: %v", e)
	heap.Remove(&eq.q, e.index)
	e.seq = 0
}

func (eq *EventQueue) Len() int {
	return len(eq.q)
}

// NextEvent returns the next event without removing it, or nil.
func (eq *EventQueue) NextEvent() *Event {
	if len(eq.q) == 0 {
		return nil
	}
	return eq.q[0]
}

// NextTimestamp returns the timestamp of the next event, or Ever.
func (eq *EventQueue) NextTimestamp() SimTime {
	if len(eq.q) == 0 {
		return Ever
	}
	return eq.q[0].Timestamp
}

// PopNext removes and returns the next event.
func (eq *EventQueue) PopNext() *Event {
	logger.AssertTrue(len(eq.q) > 0, "PopNext on empty queue")
	e := heap.Pop(&eq.q).(*Event)
	e.seq = 0
	return e
}
