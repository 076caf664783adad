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

	"github.com/stretchr/testify/assert"

	. "github.com/wlansim/dcfsim/types"
)

func TestOutgoingFrameQueue(t *testing.T) {
	q := NewOutgoingFrameQueue(3)
	assert.True(t, q.IsEmpty())
	assert.Nil(t, q.Front())
	assert.Equal(t, 3, q.Cap())

	for i := 1; i <= 3; i++ {
		assert.True(t, q.Enqueue(&Frame{Dst: MacAddr(i)}))
	}
	assert.True(t, q.IsFull())
	assert.False(t, q.Enqueue(&Frame{Dst: 4}))
	assert.Equal(t, 3, q.Len())

	assert.Equal(t, MacAddr(1), q.Front().Dst)
	assert.Equal(t, MacAddr(1), q.PopFront().Dst)
	assert.True(t, q.Enqueue(&Frame{Dst: 5}))

	var order []MacAddr
	for !q.IsEmpty() {
		order = append(order, q.PopFront().Dst)
	}
	assert.Equal(t, []MacAddr{2, 3, 5}, order)
	assert.Panics(t, func() {
		q.PopFront()
	})
}
