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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

type EnergyAnalyser struct {
	nodes                map[NodeId]*NodeRadio
	networkHistory       []NetworkConsumption
	energyHistoryByNodes [][]NodeEnergy
	title                string
}

func (e *EnergyAnalyser) AddNode(nodeID NodeId, timestamp SimTime) {
	if _, ok := e.nodes[nodeID]; ok {
		return
	}
	e.nodes[nodeID] = newNode(nodeID, timestamp)
}

func (e *EnergyAnalyser) DeleteNode(nodeID NodeId) {
	delete(e.nodes, nodeID)

	if len(e.nodes) == 0 {
		e.ClearEnergyData()
	}
}

func (e *EnergyAnalyser) GetNode(nodeID NodeId) *NodeRadio {
	return e.nodes[nodeID]
}

func (e *EnergyAnalyser) GetNetworkEnergyHistory() []NetworkConsumption {
	return e.networkHistory
}

func (e *EnergyAnalyser) GetEnergyHistoryByNodes() [][]NodeEnergy {
	return e.energyHistoryByNodes
}

func (e *EnergyAnalyser) GetLatestEnergyOfNodes() []NodeEnergy {
	if len(e.energyHistoryByNodes) == 0 {
		return nil
	}
	return e.energyHistoryByNodes[len(e.energyHistoryByNodes)-1]
}

// StoreNetworkEnergy accounts all radio time up to timestamp and stores a snapshot, nodes sorted by id.
func (e *EnergyAnalyser) StoreNetworkEnergy(timestamp SimTime) {
	nodesEnergySnapshot := make([]NodeEnergy, 0, len(e.nodes))
	networkSnapshot := NetworkConsumption{
		Timestamp: timestamp,
	}

	netSize := float64(len(e.nodes))
	for _, id := range e.sortedNodeIds() {
		node := e.nodes[id]
		node.ComputeRadioState(timestamp)

		ne := node.Energy()
		networkSnapshot.EnergyConsSleep += ne.Sleep / netSize
		networkSnapshot.EnergyConsTx += ne.Tx / netSize
		networkSnapshot.EnergyConsRx += ne.Rx / netSize
		networkSnapshot.EnergyConsSwitched += ne.Switching / netSize
		nodesEnergySnapshot = append(nodesEnergySnapshot, ne)
	}

	e.networkHistory = append(e.networkHistory, networkSnapshot)
	e.energyHistoryByNodes = append(e.energyHistoryByNodes, nodesEnergySnapshot)
}

// SaveEnergyDataToFile writes the node and network energy tables into dir, as <name>_nodes.txt and <name>.txt.
func (e *EnergyAnalyser) SaveEnergyDataToFile(dir string, name string, timestamp SimTime) error {
	if name == "" {
		if e.title == "" {
			name = "energy"
		} else {
			name = e.title
		}
	}

	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.Wrapf(err, "failed to create %s directory", dir)
	}

	path := filepath.Join(dir, name)
	fileNodes, err := os.Create(path + "_nodes.txt")
	if err != nil {
		return errors.Wrap(err, "error creating file")
	}
	defer fileNodes.Close()

	fileNetwork, err := os.Create(path + ".txt")
	if err != nil {
		return errors.Wrap(err, "error creating file")
	}
	defer fileNetwork.Close()

	e.writeEnergyByNodes(fileNodes, timestamp)
	e.writeNetworkEnergy(fileNetwork, timestamp)
	logger.Infof("energy data saved to %s", path)
	return nil
}

func (e *EnergyAnalyser) writeEnergyByNodes(w io.Writer, timestamp SimTime) {
	fmt.Fprintf(w, "Duration of the simulated network (in milliseconds): %d\n", timestamp.Us()/1000)
	fmt.Fprintf(w, "ID\tSleep (mJ)\tTransmitting (mJ)\tReceiving (mJ)\tSwitching (mJ)\n")

	for _, id := range e.sortedNodeIds() {
		e.nodes[id].ComputeRadioState(timestamp)
		ne := e.nodes[id].Energy()
		fmt.Fprintf(w, "%d\t%f\t%f\t%f\t%f\n", id, ne.Sleep, ne.Tx, ne.Rx, ne.Switching)
	}
}

func (e *EnergyAnalyser) writeNetworkEnergy(w io.Writer, timestamp SimTime) {
	fmt.Fprintf(w, "Duration of the simulated network (in milliseconds): %d\n", timestamp.Us()/1000)
	fmt.Fprintf(w, "Time (ms)\tSleep (mJ)\tTransmitting (mJ)\tReceiving (mJ)\tSwitching (mJ)\n")
	for _, snapshot := range e.networkHistory {
		fmt.Fprintf(w, "%d\t%f\t%f\t%f\t%f\n",
			snapshot.Timestamp.Us()/1000,
			snapshot.EnergyConsSleep,
			snapshot.EnergyConsTx,
			snapshot.EnergyConsRx,
			snapshot.EnergyConsSwitched,
		)
	}
}

func (e *EnergyAnalyser) sortedNodeIds() []NodeId {
	ids := make([]NodeId, 0, len(e.nodes))
	for id := range e.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (e *EnergyAnalyser) ClearEnergyData() {
	logger.Debugf("Node's energy data cleared")
	e.networkHistory = make([]NetworkConsumption, 0, 3600)
	e.energyHistoryByNodes = make([][]NodeEnergy, 0, 3600)
}

func (e *EnergyAnalyser) SetTitle(title string) {
	e.title = title
}

func NewEnergyAnalyser() *EnergyAnalyser {
	ea := &EnergyAnalyser{
		nodes:                make(map[NodeId]*NodeRadio),
		networkHistory:       make([]NetworkConsumption, 0, 3600),
		energyHistoryByNodes: make([][]NodeEnergy, 0, 3600),
	}
	return ea
}
