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

package simulation

import (
	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/dispatcher"
	"github.com/wlansim/dcfsim/mac"
	. "github.com/wlansim/dcfsim/types"
)

type NodeConfig struct {
	ID           NodeId // <= 0 for the next available nodeid
	X, Y         int
	IsAutoPlaced bool
	RadioRange   int
	Mac          *mac.Config // nil for the defaults of the simulation's PHY profile
}

type NodeAutoPlacer struct {
	X, Y       int
	Xref, Yref int
	Xmax       int
	NodeDelta  int
	isReset    bool
}

func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		ID:           -1,
		IsAutoPlaced: true,
		RadioRange:   dispatcher.DefaultRadioRange,
	}
}

// NodeConfigFinalize finalizes the configuration for a new Node before it's used to create it. This is not
// mandatory to call, but a convenience method for the caller to avoid setting all details itself.
func (s *Simulation) NodeConfigFinalize(nodeCfg *NodeConfig) error {
	if nodeCfg.ID <= 0 {
		nodeCfg.ID = s.genNodeId()
	}
	if nodeCfg.RadioRange <= 0 {
		return errors.Errorf("radio range must be positive, got %d", nodeCfg.RadioRange)
	}
	if nodeCfg.Mac == nil {
		nodeCfg.Mac = mac.DefaultConfig(s.cfg.Profile)
		if nodeCfg.Mac == nil {
			return errors.Errorf("unknown PHY profile: %s", s.cfg.Profile)
		}
	}
	return errors.Wrapf(nodeCfg.Mac.Validate(), "node %d", nodeCfg.ID)
}

func (nodeCfg *NodeConfig) dispatcherConfig() *dispatcher.NodeConfig {
	return &dispatcher.NodeConfig{
		ID:         nodeCfg.ID,
		X:          nodeCfg.X,
		Y:          nodeCfg.Y,
		RadioRange: nodeCfg.RadioRange,
		Mac:        nodeCfg.Mac,
	}
}

func NewNodeAutoPlacer() *NodeAutoPlacer {
	return &NodeAutoPlacer{
		Xref:      100,
		Yref:      100,
		Xmax:      1450,
		X:         100,
		Y:         100,
		NodeDelta: 100,
		isReset:   true,
	}
}

// UpdateReference updates the reference position of the NodeAutoPlacer to 'x', 'y'. It starts placing from there.
func (nap *NodeAutoPlacer) UpdateReference(x, y int) {
	nap.Xref = x
	nap.X = x
	nap.Yref = y
	nap.Y = y
	nap.isReset = false
}

// NextNodePosition lets the autoplacer pick the next position for a new node to be placed. Nodes are placed
// in rows, NodeDelta apart, so that a node reaches its direct neighbors with the default radio range.
func (nap *NodeAutoPlacer) NextNodePosition() (int, int) {
	if !nap.isReset {
		nap.X += nap.NodeDelta
		if nap.X > nap.Xmax {
			nap.X = nap.Xref
			nap.Y += nap.NodeDelta
		}
	}
	nap.isReset = false
	return nap.X, nap.Y
}

// ReuseNextNodePosition instructs the autoplacer to re-use the NextNodePosition() that was given out in the
// last call to this method.
func (nap *NodeAutoPlacer) ReuseNextNodePosition() {
	nap.isReset = true
}
