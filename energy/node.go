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

package energy

import (
	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

type NodeRadio struct {
	nodeId NodeId
	radio  RadioStatus
}

func (node *NodeRadio) ComputeRadioState(timestamp SimTime) {
	logger.AssertTrue(timestamp >= node.radio.Timestamp)
	delta := uint64(timestamp - node.radio.Timestamp)
	switch node.radio.State {
	case RadioSleep:
		node.radio.SpentSleep += delta
	case RadioSend:
		node.radio.SpentTx += delta
	case RadioRecv:
		node.radio.SpentRx += delta
	case RadioSwitching:
		node.radio.SpentSwitching += delta
	default:
		logger.Panicf("unknown radio state: %v", node.radio.State)
	}
	node.radio.Timestamp = timestamp
}

func (node *NodeRadio) SetRadioState(state RadioState, timestamp SimTime) {
	//Mandatory: compute energy consumed by the radio first.
	node.ComputeRadioState(timestamp)
	node.radio.State = state
}

func (node *NodeRadio) GetRadioStatus() RadioStatus {
	return node.radio
}

func (node *NodeRadio) Energy() NodeEnergy {
	return NodeEnergy{
		NodeId:    node.nodeId,
		Sleep:     nsToMs(node.radio.SpentSleep) * RadioSleepConsumption,
		Tx:        nsToMs(node.radio.SpentTx) * RadioTxConsumption,
		Rx:        nsToMs(node.radio.SpentRx) * RadioRxConsumption,
		Switching: nsToMs(node.radio.SpentSwitching) * RadioSwitchingConsumption,
	}
}

func newNode(nodeID NodeId, timestamp SimTime) *NodeRadio {
	node := &NodeRadio{
		nodeId: nodeID,
		radio: RadioStatus{
			State:     RadioRecv,
			Timestamp: timestamp,
		},
	}
	return node
}
