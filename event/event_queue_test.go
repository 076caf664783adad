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
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/wlansim/dcfsim/types"
)

func TestEventQueue_Len(t *testing.T) {
	q := NewEventQueue()
	assert.Equal(t, 0, q.Len())
	q.Add(&Event{Timestamp: 2, NodeId: 2})
	assert.Equal(t, 1, q.Len())
	q.Add(&Event{Timestamp: 1, NodeId: 1})
	q.Add(&Event{Timestamp: 3, NodeId: 3})
	assert.Equal(t, 3, q.Len())
}

func TestEventQueue_NextTimestamp(t *testing.T) {
	q := NewEventQueue()
	assert.Equal(t, Ever, q.NextTimestamp())
	assert.Nil(t, q.NextEvent())
	q.Add(&Event{Timestamp: 2, NodeId: 2})
	assert.Equal(t, SimTime(2), q.NextTimestamp())
	q.Add(&Event{Timestamp: 1, NodeId: 1})
	assert.Equal(t, SimTime(1), q.NextTimestamp())
	q.Add(&Event{Timestamp: 3, NodeId: 3})
	assert.Equal(t, SimTime(1), q.NextTimestamp())
	assert.Equal(t, NodeId(1), q.NextEvent().NodeId)
}

func TestEventQueue_PopNext(t *testing.T) {
	q := NewEventQueue()
	q.Add(&Event{Timestamp: 2, NodeId: 2})
	q.Add(&Event{Timestamp: 1, NodeId: 1})
	q.Add(&Event{Timestamp: 3, NodeId: 3})

	for i := 1; i <= 3; i++ {
		ev := q.PopNext()
		assert.True(t, ev.NodeId == NodeId(i) && ev.Timestamp == SimTime(i))
		assert.False(t, ev.IsQueued())
	}
	assert.Panics(t, func() {
		q.PopNext()
	})
}

func TestEventQueue_InsertionOrderOnTies(t *testing.T) {
	q := NewEventQueue()
	for i := 1; i <= 20; i++ {
		q.Add(&Event{Timestamp: 5, NodeId: NodeId(i)})
	}
	q.Add(&Event{Timestamp: 4, NodeId: 100})

	assert.Equal(t, NodeId(100), q.PopNext().NodeId)
	for i := 1; i <= 20; i++ {
		assert.Equal(t, NodeId(i), q.PopNext().NodeId)
	}
}

func TestEventQueue_Remove(t *testing.T) {
	q := NewEventQueue()
	events := make([]*Event, 5)
	for i := range events {
		events[i] = &Event{Timestamp: SimTime(10 - i), NodeId: NodeId(i)}
		q.Add(events[i])
	}

	q.Remove(events[4])
	q.Remove(events[1])
	assert.False(t, events[4].IsQueued())
	assert.Equal(t, 3, q.Len())
	assert.Panics(t, func() {
		q.Remove(events[1])
	})

	var order []NodeId
	for q.Len() > 0 {
		order = append(order, q.PopNext().NodeId)
	}
	assert.Equal(t, []NodeId{3, 2, 0}, order)

	// removed events can be queued again
	q.Add(events[1])
	assert.Equal(t, 1, q.Len())
}

func TestEventCopyIsNotQueued(t *testing.T) {
	q := NewEventQueue()
	e := &Event{Timestamp: 1, Type: EventTypeTimer}
	q.Add(e)
	c := e.Copy()
	assert.True(t, e.IsQueued())
	assert.False(t, c.IsQueued())
	q.Add(&c)
	assert.Equal(t, 2, q.Len())
}
