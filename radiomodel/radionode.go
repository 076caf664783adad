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
	"math"

	. "github.com/wlansim/dcfsim/types"
)

// RadioNode is the status of a single radio node of the radio model.
type RadioNode struct {
	Id NodeId

	// RadioRange is the radio range as configured by the simulation for this node.
	RadioRange float64

	// RadioState is the current radio's state; RadioSend only when physically transmitting.
	RadioState RadioState

	// Node position in distance units.
	X, Y float64

	// incoming are the signals currently sensed by the node.
	incoming map[uint64]*incomingSignal

	stats RadioNodeStats
}

type incomingSignal struct {
	sig      *Signal
	snrDb    DbValue
	locked   bool // the radio was listening, and not sensing anything else, when the signal began
	collided bool
}

type RadioNodeConfig struct {
	X, Y       int
	RadioRange int
}

// RadioNodeStats counts the signals a node sent and what it made of the signals it sensed.
type RadioNodeStats struct {
	NumBytesTx    int `yaml:"bytes-tx"`
	NumFramesTx   int `yaml:"frames-tx"`
	NumFramesRx   int `yaml:"frames-rx"`
	NumCollisions int `yaml:"collisions"`
	NumBitErrors  int `yaml:"bit-errors"`
}

func NewRadioNode(nodeid NodeId, cfg *RadioNodeConfig) *RadioNode {
	return &RadioNode{
		Id:         nodeid,
		X:          float64(cfg.X),
		Y:          float64(cfg.Y),
		RadioRange: float64(cfg.RadioRange),
		RadioState: RadioRecv,
		incoming:   map[uint64]*incomingSignal{},
	}
}

func (rn *RadioNode) SetRadioState(state RadioState) {
	rn.RadioState = state
}

func (rn *RadioNode) SetNodePos(x, y int) {
	// simplified model: ignore pos changes during Rx.
	rn.X, rn.Y = float64(x), float64(y)
}

// GetDistanceTo gets the distance to another RadioNode (in position units).
func (rn *RadioNode) GetDistanceTo(other *RadioNode) float64 {
	dx := other.X - rn.X
	dy := other.Y - rn.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// MediumState returns the medium state as sensed by the node.
func (rn *RadioNode) MediumState() MediumState {
	if len(rn.incoming) > 0 {
		return MediumBusy
	}
	return MediumIdle
}

func (rn *RadioNode) GetStats() RadioNodeStats {
	return rn.stats
}

// ClearIncoming forgets all signals the node currently senses.
func (rn *RadioNode) ClearIncoming() {
	rn.incoming = map[uint64]*incomingSignal{}
}
