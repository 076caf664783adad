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

package radiomodel

import (
	"math/rand"
	"sort"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

// RadioModelDisc is a radio model with unlimited parallel signals on the medium. A signal is sensed by
// every node within the sender's radio range (if the disc limit applies) whose SNR is above the
// threshold. Two signals overlapping at a receiver destroy each other there. A node only receives a
// signal if its radio was listening, and idle, when the signal began and is still listening at the end.
type RadioModelDisc struct {
	Name   string
	params *RadioModelParams
	nodes  map[NodeId]*RadioNode
	ids    []NodeId
	rnd    *rand.Rand
}

func newRadioModelDisc(name string, params *RadioModelParams, rnd *rand.Rand) *RadioModelDisc {
	return &RadioModelDisc{
		Name:   name,
		params: params,
		nodes:  map[NodeId]*RadioNode{},
		rnd:    rnd,
	}
}

func (rm *RadioModelDisc) AddNode(node *RadioNode) {
	_, exists := rm.nodes[node.Id]
	logger.AssertFalse(exists, "node %d already added", node.Id)
	rm.nodes[node.Id] = node
	rm.ids = append(rm.ids, node.Id)
	sort.Ints(rm.ids)
}

func (rm *RadioModelDisc) DeleteNode(id NodeId) {
	delete(rm.nodes, id)
	for i, nid := range rm.ids {
		if nid == id {
			rm.ids = append(rm.ids[:i], rm.ids[i+1:]...)
			break
		}
	}
}

func (rm *RadioModelDisc) CheckRadioReachable(src *RadioNode, dst *RadioNode) bool {
	if src == dst {
		return false
	}
	if rm.params.IsDiscLimit && src.GetDistanceTo(dst) > src.RadioRange {
		return false
	}
	return rm.GetSnrDb(src, dst) >= rm.params.SnrMinThresholdDb
}

func (rm *RadioModelDisc) GetSnrDb(src *RadioNode, dst *RadioNode) DbValue {
	if !rm.params.UseVariableSnr {
		return rm.params.FixedSnrDb
	}
	return computeSnrDb(src.GetDistanceTo(dst), rm.params)
}

func (rm *RadioModelDisc) TxStart(src *RadioNode, sig *Signal) []*RadioNode {
	logger.AssertTrue(src.RadioState == RadioSend, "node %d transmits with radio %v", src.Id, src.RadioState)
	src.stats.NumFramesTx++
	src.stats.NumBytesTx += (sig.Frame.BitLength() + 7) / 8

	// half duplex: whatever the sender was receiving is lost.
	for _, in := range src.incoming {
		in.locked = false
	}

	var turnedBusy []*RadioNode
	for _, id := range rm.ids {
		dst := rm.nodes[id]
		if !rm.CheckRadioReachable(src, dst) {
			continue
		}

		in := &incomingSignal{
			sig:    sig,
			snrDb:  rm.GetSnrDb(src, dst),
			locked: dst.RadioState == RadioRecv && len(dst.incoming) == 0,
		}
		if len(dst.incoming) > 0 {
			in.collided = true
			for _, other := range dst.incoming {
				other.collided = true
			}
		} else {
			turnedBusy = append(turnedBusy, dst)
		}
		dst.incoming[sig.Id] = in
	}
	return turnedBusy
}

func (rm *RadioModelDisc) TxStop(src *RadioNode, sig *Signal) []Reception {
	var receptions []Reception
	for _, id := range rm.ids {
		dst := rm.nodes[id]
		in, ok := dst.incoming[sig.Id]
		if !ok {
			continue
		}
		delete(dst.incoming, sig.Id)

		rx := Reception{
			Node:       dst,
			Outcome:    RxNone,
			SnrDb:      in.snrDb,
			MediumIdle: len(dst.incoming) == 0,
		}
		if in.locked && dst.RadioState == RadioRecv {
			switch {
			case in.collided:
				rx.Outcome = RxCollision
				dst.stats.NumCollisions++
			case rm.params.IsBerModel && applyBerModel(in.snrDb, sig.Frame.BitLength(), rm.rnd):
				rx.Outcome = RxBitError
				dst.stats.NumBitErrors++
			default:
				rx.Outcome = RxSuccess
				dst.stats.NumFramesRx++
			}
		}
		receptions = append(receptions, rx)
	}
	return receptions
}

func (rm *RadioModelDisc) GetName() string {
	return rm.Name
}

func (rm *RadioModelDisc) GetParameters() *RadioModelParams {
	return rm.params
}
