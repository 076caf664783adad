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

package dispatcher

import (
	"github.com/wlansim/dcfsim/mac"
	. "github.com/wlansim/dcfsim/types"
)

const (
	DefaultRadioRange = 160
)

// NodeConfig is the configuration of a node to be added to the simulation.
type NodeConfig struct {
	ID         NodeId
	X, Y       int
	RadioRange int
	Mac        *mac.Config
}

func DefaultNodeConfig() *NodeConfig {
	return &NodeConfig{
		RadioRange: DefaultRadioRange,
		Mac:        mac.DefaultConfig(mac.Profile80211b),
	}
}

// CallbackHandler receives the upper-layer view of the simulation. All callbacks are invoked from the
// dispatcher's goroutine.
type CallbackHandler interface {
	OnFrameDelivered(nodeid NodeId, src MacAddr, payload []byte)
	OnFrameDropped(nodeid NodeId, frame *Frame, reason DropReason)

	// OnTraffic is called when a traffic event scheduled with ScheduleTraffic is due.
	OnTraffic(nodeid NodeId, generatorId int)

	OnNodeFail(nodeid NodeId)
	OnNodeRecover(nodeid NodeId)
}
