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
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/dispatcher"
	"github.com/wlansim/dcfsim/energy"
	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/prng"
	"github.com/wlansim/dcfsim/progctx"
	. "github.com/wlansim/dcfsim/types"
)

type Simulation struct {
	Started       chan struct{}
	ctx           *progctx.ProgCtx
	stopped       bool
	cfg           *Config
	nodes         map[NodeId]*Node
	d             *dispatcher.Dispatcher
	nodePlacer    *NodeAutoPlacer
	kpiMgr        *KpiManager
	traffic       map[int]*TrafficGenerator
	lastTrafficId int
	logLevel      logger.Level
}

func NewSimulation(ctx *progctx.ProgCtx, cfg *Config, dispatcherCfg *dispatcher.Config) (*Simulation, error) {
	s := &Simulation{
		Started:    make(chan struct{}),
		ctx:        ctx,
		cfg:        cfg,
		nodes:      map[NodeId]*Node{},
		nodePlacer: NewNodeAutoPlacer(),
		kpiMgr:     NewKpiManager(),
		traffic:    map[int]*TrafficGenerator{},
	}
	s.SetLogLevel(cfg.LogLevel)
	if cfg.RandomSeed != 0 {
		prng.Init(cfg.RandomSeed)
	}

	if err := s.createOutputDir(); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s failed", cfg.OutputDir)
	}
	if err := s.cleanOutputDir(cfg.Id); err != nil {
		return nil, errors.Wrapf(err, "cleaning output directory %s failed", cfg.OutputDir)
	}

	// start the dispatcher for virtual time
	if dispatcherCfg == nil {
		dispatcherCfg = dispatcher.DefaultConfig()
	}
	dispatcherCfg.RadioModel = cfg.RadioModel
	dispatcherCfg.DumpPackets = cfg.DumpPackets
	dispatcherCfg.PcapEnabled = cfg.PcapEnabled
	dispatcherCfg.PcapFrameType = cfg.PcapFrameType
	dispatcherCfg.PcapFile = s.outputFile(DefaultPcapFile)

	var err error
	if s.d, err = dispatcher.NewDispatcher(s.ctx, dispatcherCfg, s); err != nil {
		return nil, err
	}
	s.d.GetEnergyAnalyser().SetTitle(fmt.Sprintf("simulation %d", cfg.Id))
	s.kpiMgr.Init(s)
	s.kpiMgr.Start()
	return s, nil
}

func (s *Simulation) AddNode(cfg *NodeConfig) (*Node, error) {
	if err := s.NodeConfigFinalize(cfg); err != nil {
		return nil, err
	}
	nodeid := cfg.ID
	if s.nodes[nodeid] != nil {
		return nil, errors.Errorf("node %d already exists", nodeid)
	}

	// node position may use the nodePlacer
	if cfg.IsAutoPlaced {
		cfg.X, cfg.Y = s.nodePlacer.NextNodePosition()
		cfg.IsAutoPlaced = false
	} else {
		s.nodePlacer.UpdateReference(cfg.X, cfg.Y)
	}

	logger.Debugf("simulation:AddNode: %+v", *cfg)
	node := newNode(s, cfg)
	s.nodes[nodeid] = node
	return node, nil
}

func (s *Simulation) genNodeId() NodeId {
	nodeid := 1
	for s.nodes[nodeid] != nil {
		nodeid += 1
	}
	return nodeid
}

// Run runs the dispatcher in the current goroutine, until the simulation exits.
func (s *Simulation) Run() {
	s.ctx.WaitAdd("simulation", 1)
	defer s.ctx.WaitDone("simulation")
	defer logger.Debugf("simulation exit.")
	defer s.Stop()

	close(s.Started)
	s.d.Run()
}

func (s *Simulation) Nodes() map[NodeId]*Node {
	return s.nodes
}

// GetNodes returns a sorted array of NodeIds.
func (s *Simulation) GetNodes() []NodeId {
	keys := make([]NodeId, len(s.nodes))
	i := 0
	for key := range s.nodes {
		keys[i] = key
		i++
	}
	sort.Ints(keys)
	return keys
}

// Stop ends the KPI period, saves the energy report and cancels the simulation context. It must be called
// from the goroutine that runs the dispatcher.
func (s *Simulation) Stop() {
	if s.stopped {
		return
	}

	logger.Infof("stopping simulation ...")
	s.kpiMgr.Stop()
	if err := s.d.GetEnergyAnalyser().SaveEnergyDataToFile(s.cfg.OutputDir, fmt.Sprintf("%d_energy", s.cfg.Id),
		s.d.CurTime); err != nil {
		logger.Errorf("saving energy report failed: %v", err)
	}
	s.stopped = true
	s.ctx.Cancel("simulation-stop")
	s.d.Stop()
}

func (s *Simulation) IsStopping() bool {
	return s.stopped
}

// OnFrameDelivered is part of implementation of dispatcher.CallbackHandler.
func (s *Simulation) OnFrameDelivered(nodeid NodeId, src MacAddr, payload []byte) {
	logger.NodeLogf(nodeid, s.d.CurTime, logger.DebugLevel, "received %d bytes from %v", len(payload), src)
}

func (s *Simulation) OnFrameDropped(nodeid NodeId, frame *Frame, reason DropReason) {
	logger.NodeLogf(nodeid, s.d.CurTime, logger.InfoLevel, "dropped %v: %v", frame, reason)
}

func (s *Simulation) OnNodeFail(nodeid NodeId) {
	node := s.nodes[nodeid]
	logger.AssertNotNil(node)
}

func (s *Simulation) OnNodeRecover(nodeid NodeId) {
	node := s.nodes[nodeid]
	logger.AssertNotNil(node)
}

// PostAsync queues f to run in the dispatcher's goroutine. It returns false if the simulation is already
// exiting and f will not run.
func (s *Simulation) PostAsync(f func()) bool {
	if s.ctx.Err() != nil {
		return false
	}
	s.d.PostAsync(false, f)
	return true
}

func (s *Simulation) Dispatcher() *dispatcher.Dispatcher {
	return s.d
}

func (s *Simulation) VisitNodesInOrder(cb func(node *Node)) {
	for _, nodeid := range s.GetNodes() {
		cb(s.nodes[nodeid])
	}
}

func (s *Simulation) MoveNodeTo(nodeid NodeId, x, y int) error {
	node := s.nodes[nodeid]
	if node == nil {
		return fmt.Errorf("node not found: %d", nodeid)
	}
	s.d.SetNodePos(nodeid, x, y)
	node.cfg.X, node.cfg.Y = x, y
	s.nodePlacer.UpdateReference(x, y)
	return nil
}

func (s *Simulation) DeleteNode(nodeid NodeId) error {
	node := s.nodes[nodeid]
	if node == nil {
		return fmt.Errorf("node not found: %d", nodeid)
	}
	for id, gen := range s.traffic {
		if gen.Cfg.Src == nodeid {
			gen.stopped = true
			delete(s.traffic, id)
		}
	}
	s.d.DeleteNode(nodeid)
	s.kpiMgr.stopNode(nodeid)
	delete(s.nodes, nodeid)
	return nil
}

func (s *Simulation) SetNodeFailed(nodeid NodeId, failed bool) error {
	if s.nodes[nodeid] == nil {
		return fmt.Errorf("node not found: %d", nodeid)
	}
	s.d.SetNodeFailed(nodeid, failed)
	return nil
}

// SetFailTime lets a node fail for failDuration once in every failInterval; a zero failTime disables it.
func (s *Simulation) SetFailTime(nodeid NodeId, failTime dispatcher.FailTime) error {
	node := s.nodes[nodeid]
	if node == nil {
		return fmt.Errorf("node not found: %d", nodeid)
	}
	if failTime.CanFail() && failTime.FailDuration >= failTime.FailInterval {
		return fmt.Errorf("fail duration %v must be shorter than the interval %v", failTime.FailDuration,
			failTime.FailInterval)
	}
	node.DNode.SetFailTime(failTime)
	return nil
}

// Go runs the simulation for duration. The returned channel is closed when done.
func (s *Simulation) Go(duration time.Duration) <-chan struct{} {
	return s.d.Go(duration)
}

// Kpi returns the KPIs of the running (or last) KPI period.
func (s *Simulation) Kpi() *Kpi {
	return s.kpiMgr.Data()
}

func (s *Simulation) GetKpiManager() *KpiManager {
	return s.kpiMgr
}

func (s *Simulation) GetEnergyAnalyser() *energy.EnergyAnalyser {
	return s.d.GetEnergyAnalyser()
}

func (s *Simulation) GetConfig() *Config {
	return s.cfg
}

func (s *Simulation) GetLogLevel() logger.Level {
	return s.logLevel
}

func (s *Simulation) SetLogLevel(level logger.Level) {
	s.logLevel = level
	logger.SetLevel(level)
}

func (s *Simulation) outputFile(name string) string {
	return filepath.Join(s.cfg.OutputDir, fmt.Sprintf("%d_%s", s.cfg.Id, name))
}

func (s *Simulation) cleanOutputDir(simulationId int) error {
	// output of a previous run with the same id is replaced.
	for _, pattern := range []string{"%d_*.pcap", "%d_*.json", "%d_*.txt"} {
		err := removeAllFiles(filepath.Join(s.cfg.OutputDir, fmt.Sprintf(pattern, simulationId)))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) createOutputDir() error {
	return os.MkdirAll(s.cfg.OutputDir, 0775)
}

func removeAllFiles(globPath string) error {
	files, err := filepath.Glob(globPath)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}
