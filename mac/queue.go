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
	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

// OutgoingFrameQueue is a bounded FIFO of frames from the upper layer with drop-tail overflow.
type OutgoingFrameQueue struct {
	frames   []*Frame
	capacity int
}

func NewOutgoingFrameQueue(capacity int) *OutgoingFrameQueue {
	logger.AssertTrue(capacity >= 1, "queue capacity must be at least 1")
	return &OutgoingFrameQueue{
		frames:   make([]*Frame, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue appends the frame, or returns false and leaves the queue unchanged if it is full.
func (q *OutgoingFrameQueue) Enqueue(frame *Frame) bool {
	if q.IsFull() {
		return false
	}
	q.frames = append(q.frames, frame)
	return true
}

// Front returns the head of the queue without removing it, or nil.
func (q *OutgoingFrameQueue) Front() *Frame {
	if len(q.frames) == 0 {
		return nil
	}
	return q.frames[0]
}

func (q *OutgoingFrameQueue) PopFront() *Frame {
	logger.AssertTrue(len(q.frames) > 0, "PopFront on empty queue")
	f := q.frames[0]
	q.frames[0] = nil
	q.frames = q.frames[1:]
	return f
}

func (q *OutgoingFrameQueue) IsEmpty() bool {
	return len(q.frames) == 0
}

func (q *OutgoingFrameQueue) IsFull() bool {
	return len(q.frames) >= q.capacity
}

func (q *OutgoingFrameQueue) Len() int {
	return len(q.frames)
}

func (q *OutgoingFrameQueue) Cap() int {
	return q.capacity
}
