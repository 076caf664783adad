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
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wlansim/dcfsim/dispatcher"
	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

// NodeCounters maps a counter name, prefixed with its group, to its value.
type NodeCounters map[string]uint64

// Add adds all counters of other to nc.
func (nc NodeCounters) Add(other NodeCounters) {
	for k, v := range other {
		nc[k] += v
	}
}

type Node struct {
	S     *Simulation
	Id    NodeId
	DNode *dispatcher.Node
	cfg   *NodeConfig
}

func newNode(s *Simulation, cfg *NodeConfig) *Node {
	node := &Node{
		S:     s,
		Id:    cfg.ID,
		DNode: s.d.AddNode(cfg.dispatcherConfig()),
		cfg:   cfg,
	}
	logger.NodeLogf(node.Id, s.d.CurTime, logger.DebugLevel, "node added at (%d,%d) with radio range %d, profile %s",
		cfg.X, cfg.Y, cfg.RadioRange, cfg.Mac.Profile)
	return node
}

func (node *Node) String() string {
	return fmt.Sprintf("Node<%d>", node.Id)
}

func (node *Node) GetConfig() *NodeConfig {
	return node.cfg
}

// Send queues payload to the MAC of the node, at the current simulation time.
func (node *Node) Send(dst MacAddr, payload []byte) {
	node.S.d.Submit(node.Id, dst, payload)
}

// GetCounters returns the counters of a group ("mac", "node" or "radio"), with each name prefixed.
func (node *Node) GetCounters(group string, prefix string) NodeCounters {
	var src interface{}
	switch group {
	case "mac":
		src = node.DNode.Mac.Counters
	case "node":
		src = node.DNode.Stats
	case "radio":
		src = node.DNode.GetRadioStats()
	default:
		logger.Panicf("unknown counter group: %s", group)
	}

	counters, err := countersFromStruct(src, prefix)
	logger.PanicIfError(err)
	return counters
}

// countersFromStruct flattens a struct of integer counters, keyed by the fields' yaml names.
func countersFromStruct(src interface{}, prefix string) (NodeCounters, error) {
	var doc yaml.Node
	if err := doc.Encode(src); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.MappingNode {
		return nil, errors.Errorf("counters must be a mapping, got kind %d", doc.Kind)
	}

	res := make(NodeCounters, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i].Value, doc.Content[i+1].Value
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "counter %s", key)
		}
		res[prefix+key] = v
	}
	return res, nil
}

func mergeNodeCounters(counters ...NodeCounters) NodeCounters {
	res := make(NodeCounters)
	for _, c := range counters {
		for k, v := range c {
			res[k] = v
		}
	}
	return res
}
