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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

// counterSnapshot holds the merged counters of all nodes at one moment.
type counterSnapshot map[NodeId]NodeCounters

// KpiManager measures KPIs over a period of simulation time. The period is the difference
// between two counter snapshots.
type KpiManager struct {
	sim     *Simulation
	data    *Kpi
	running bool

	startTime SimTime
	start     counterSnapshot
	end       counterSnapshot
}

func NewKpiManager() *KpiManager {
	return &KpiManager{}
}

func (km *KpiManager) Init(sim *Simulation) {
	logger.AssertNil(km.sim)
	km.sim = sim
	km.data = &Kpi{Status: "ok"}
	km.start = counterSnapshot{}
	km.end = counterSnapshot{}
}

// Start begins a new KPI period now.
func (km *KpiManager) Start() {
	logger.AssertNotNil(km.sim)
	km.data = &Kpi{Status: "ok"}
	km.startTime = km.sim.d.CurTime
	km.start = km.snapshot()
	km.running = true
	km.saveDefaultOrLog()
}

// Stop ends the period; its KPIs stay available until the next Start.
func (km *KpiManager) Stop() {
	if !km.running {
		return
	}
	km.end = km.snapshot()
	km.running = false
	km.calculate()
	km.saveDefaultOrLog()
}

func (km *KpiManager) IsRunning() bool {
	return km.running
}

// Data returns the KPIs of the running period up to now, or of the last period.
func (km *KpiManager) Data() *Kpi {
	if km.running {
		km.end = km.snapshot()
		km.calculate()
	}
	return km.data
}

func (km *KpiManager) SaveDefaultFile() error {
	return km.SaveFile(km.defaultFileName())
}

func (km *KpiManager) SaveFile(fn string) error {
	logger.AssertNotNil(km.sim)
	data := km.Data()
	data.FileTime = time.Now().Format(time.RFC3339)

	js, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshal KPI data")
	}
	return errors.Wrapf(os.WriteFile(fn, js, 0644), "write KPI file %s", fn)
}

func (km *KpiManager) saveDefaultOrLog() {
	if err := km.SaveDefaultFile(); err != nil {
		logger.Errorf("%v", err)
	}
}

// stopNode excludes a deleted node from the KPIs of the running period.
func (km *KpiManager) stopNode(nodeid NodeId) {
	delete(km.start, nodeid)
	delete(km.end, nodeid)
}

// snapshot returns nil while the simulation is stopping, as node state may be gone.
func (km *KpiManager) snapshot() counterSnapshot {
	if km.sim.IsStopping() {
		return nil
	}
	snap := counterSnapshot{}
	for _, nid := range km.sim.GetNodes() {
		node := km.sim.nodes[nid]
		snap[nid] = mergeNodeCounters(node.GetCounters("mac", "mac."), node.GetCounters("node", "node."),
			node.GetCounters("radio", "radio."))
	}
	return snap
}

// countersSince returns cur minus start; counters unknown at start count from 0.
func countersSince(cur NodeCounters, start NodeCounters) NodeCounters {
	diff := make(NodeCounters, len(cur))
	for name, v := range cur {
		diff[name] = v - start[name]
	}
	return diff
}

func (km *KpiManager) calculate() {
	now := km.sim.d.CurTime
	km.data.TimeUs = KpiTimeUs{
		StartTimeUs: km.startTime.Us(),
		EndTimeUs:   now.Us(),
		PeriodUs:    now.Us() - km.startTime.Us(),
	}
	km.data.TimeSec = KpiTimeSec{
		StartTimeSec: float64(km.startTime) / 1e9,
		EndTimeSec:   float64(now) / 1e9,
		PeriodSec:    float64(now-km.startTime) / 1e9,
	}

	km.data.Channel = KpiChannel{}
	km.data.Mac = KpiMac{NoAckPercentage: map[NodeId]float64{}}
	km.data.Nodes = map[NodeId]KpiNode{}
	km.data.Counters = map[NodeId]NodeCounters{}
	if km.end == nil {
		km.data.Status = "'counters', 'nodes' and 'mac' not included due to interrupted simulation"
		return
	}

	period := km.data.TimeSec.PeriodSec
	for nid, cur := range km.end {
		ctr := countersSince(cur, km.start[nid])
		km.data.Counters[nid] = ctr
		km.data.Mac.NoAckPercentage[nid] = noAckPercent(ctr)
		km.data.Nodes[nid] = nodeKpi(ctr, period)

		km.data.Channel.NumFrames += ctr["radio.frames-tx"]
		km.data.Channel.NumCollisions += ctr["radio.collisions"]
		km.data.Channel.NumBitErrors += ctr["radio.bit-errors"]
	}
	if period > 0 {
		km.data.Channel.AvgFps = float64(km.data.Channel.NumFrames) / period
	}
}

func noAckPercent(ctr NodeCounters) float64 {
	sent := ctr["mac.data-sent"]
	if sent == 0 {
		return 0
	}
	return 100 - 100*float64(ctr["mac.acked"])/float64(sent)
}

func nodeKpi(ctr NodeCounters, periodSec float64) KpiNode {
	k := KpiNode{
		Delivered:      ctr["node.delivered"],
		BytesDelivered: ctr["node.bytes-delivered"],
		QueueDrops:     ctr["node.queue-drops"],
		RetryDrops:     ctr["node.retry-drops"],
	}
	if periodSec > 0 {
		k.ThroughputKbps = float64(k.BytesDelivered) * 8 / 1000 / periodSec
	}
	return k
}

func (km *KpiManager) defaultFileName() string {
	return filepath.Join(km.sim.cfg.OutputDir, fmt.Sprintf("%d_kpi.json", km.sim.cfg.Id))
}
