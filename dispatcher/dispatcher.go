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
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/energy"
	"github.com/wlansim/dcfsim/event"
	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/pcap"
	"github.com/wlansim/dcfsim/prng"
	"github.com/wlansim/dcfsim/progctx"
	"github.com/wlansim/dcfsim/radiomodel"
	. "github.com/wlansim/dcfsim/types"
)

type pcapFrameItem struct {
	Ustime  uint64
	Data    []byte
	Bitrate float64
}

type goDuration struct {
	duration time.Duration
	done     chan struct{}
}

type Dispatcher struct {
	ctx            *progctx.ProgCtx
	cfg            Config
	cbHandler      CallbackHandler
	waitGroup      sync.WaitGroup
	CurTime        SimTime
	pauseTime      SimTime
	evtQueue       *event.EventQueue
	nodes          map[NodeId]*Node
	deletedNodes   map[NodeId]struct{}
	pcap           pcap.File
	pcapFrameChan  chan pcapFrameItem
	taskChan       chan func()
	goDurationChan chan goDuration
	signalSeq      uint64
	energyAnalyser *energy.EnergyAnalyser
	nextEnergyTime SimTime

	Counters struct {
		// Event counters
		TimerEvents   uint64
		TxStartEvents uint64
		TxDoneEvents  uint64
		SubmitEvents  uint64
		TrafficEvents uint64
		// Reception outcomes
		Receptions uint64
		Collisions uint64
		BitErrors  uint64
	}
	watchingNodes map[NodeId]struct{}
	stopped       bool
	radioModel    radiomodel.RadioModel
}

func NewDispatcher(ctx *progctx.ProgCtx, cfg *Config, cbHandler CallbackHandler) (*Dispatcher, error) {
	rm := radiomodel.NewRadioModel(cfg.RadioModel, prng.NewRand(prng.NewRadioModelRandomSeed()))
	if rm == nil {
		return nil, errors.Errorf("unknown radio model: %s", cfg.RadioModel)
	}

	d := &Dispatcher{
		ctx:            ctx,
		cfg:            *cfg,
		cbHandler:      cbHandler,
		evtQueue:       event.NewEventQueue(),
		nodes:          make(map[NodeId]*Node),
		deletedNodes:   map[NodeId]struct{}{},
		pcapFrameChan:  make(chan pcapFrameItem, 100000),
		taskChan:       make(chan func(), 100),
		watchingNodes:  map[NodeId]struct{}{},
		goDurationChan: make(chan goDuration, 10),
		energyAnalyser: energy.NewEnergyAnalyser(),
		radioModel:     rm,
	}
	if d.cfg.PcapEnabled {
		var err error
		if d.pcap, err = pcap.NewFile(d.cfg.PcapFile, d.cfg.PcapFrameType); err != nil {
			return nil, err
		}
		d.waitGroup.Add(1)
		go d.pcapFrameWriter()
	}

	logger.Infof("dispatcher started: cfg=%+v", *cfg)
	return d, nil
}

func (d *Dispatcher) Stop() {
	if d.stopped {
		return
	}
	d.stopped = true
	close(d.pcapFrameChan)
	d.waitGroup.Wait()
}

func (d *Dispatcher) Nodes() map[NodeId]*Node {
	return d.nodes
}

// Go runs the simulation for the given duration. The returned channel is closed when done.
func (d *Dispatcher) Go(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	d.goDurationChan <- goDuration{
		duration: duration,
		done:     done,
	}
	return done
}

func (d *Dispatcher) Run() {
	d.ctx.WaitAdd("dispatcher", 1)
	defer d.ctx.WaitDone("dispatcher")
	defer logger.Debugf("dispatcher exit.")

	defer d.Stop()

	done := d.ctx.Done()
loop:
	for {
		select {
		case f := <-d.taskChan:
			f()
		case duration := <-d.goDurationChan:
			d.goFor(duration.duration)
			close(duration.done)
			if d.ctx.Err() != nil {
				break loop
			}
		case <-done:
			break loop
		}
	}
}

// goFor executes all events of the next duration of simulation time, in time order.
func (d *Dispatcher) goFor(duration time.Duration) {
	logger.AssertTrue(d.CurTime == d.pauseTime)
	oldPauseTime := d.pauseTime
	d.pauseTime = d.pauseTime.Add(duration)
	if d.pauseTime > Ever || d.pauseTime < oldPauseTime {
		d.pauseTime = Ever
	}

	d.goUntilPauseTime()
	if d.ctx.Err() != nil {
		// interrupted: resume from where the simulation stopped.
		d.pauseTime = d.CurTime
		return
	}
	logger.AssertTrue(d.CurTime == d.pauseTime)
	if d.pcap != nil {
		_ = d.pcap.Sync()
	}
}

func (d *Dispatcher) goUntilPauseTime() {
	for d.CurTime < d.pauseTime {
		d.handleTasks()

		if d.ctx.Err() != nil {
			break
		}

		if !d.processNextEvent() {
			// no more events until pauseTime, sim time is advanced to goal.
			d.advanceTime(d.pauseTime)
		}
	}
}

// processNextEvent processes all queued events of the next event time, including the ones added for that
// same time while processing.
func (d *Dispatcher) processNextEvent() bool {
	logger.AssertTrue(d.CurTime <= d.pauseTime)

	nextTime := d.evtQueue.NextTimestamp()
	if d.evtQueue.Len() == 0 || nextTime > d.pauseTime {
		return false
	}
	logger.AssertTrue(nextTime >= d.CurTime, "event in the past: %v < %v", nextTime, d.CurTime)
	d.advanceTime(nextTime)

	for d.evtQueue.Len() > 0 && d.evtQueue.NextTimestamp() == nextTime {
		d.handleEvent(d.evtQueue.PopNext())
	}
	return true
}

func (d *Dispatcher) handleEvent(evt *event.Event) {
	node := d.nodes[evt.NodeId]
	if node == nil {
		if !d.isDeleted(evt.NodeId) {
			logger.Warnf("event for unknown node: %v", evt)
		}
		return
	}

	if d.isWatching(evt.NodeId) {
		logger.NodeLogf(evt.NodeId, d.CurTime, logger.TraceLevel, "Dispat <<< %v", evt)
	}

	switch evt.Type {
	case event.EventTypeTimer:
		d.Counters.TimerEvents++
		kind := evt.TimerData.Kind
		logger.AssertTrue(node.timers[kind] == evt, "%v: stale timer event %v", node, evt)
		node.timers[kind] = nil
		node.Mac.OnTimer(kind, evt.TimerData.Handle)
	case event.EventTypeTxStart:
		d.Counters.TxStartEvents++
		d.startSignal(node)
	case event.EventTypeTxDone:
		d.Counters.TxDoneEvents++
		d.endSignal(node, false)
	case event.EventTypeSubmit:
		d.Counters.SubmitEvents++
		node.Mac.Submit(evt.Frame)
	case event.EventTypeTraffic:
		d.Counters.TrafficEvents++
		if d.cbHandler != nil {
			d.cbHandler.OnTraffic(evt.NodeId, evt.GeneratorId)
		}
	default:
		logger.Panicf("unknown event type: %v", evt)
	}
}

// startSignal puts the signal of node on air; receivers that were idle sense a busy medium from now.
func (d *Dispatcher) startSignal(node *Node) {
	tx := node.tx
	logger.AssertNotNil(tx)
	sig := tx.sig

	if d.pcap != nil {
		d.pcapFrameChan <- pcapFrameItem{d.CurTime.Us(), pcap.EncodeDot11(sig.Frame), sig.Bitrate}
	}
	if d.cfg.DumpPackets {
		logger.Infof("%12d %v %v at %.1f Mbit/s, %v", d.CurTime.Us(), node, sig.Frame, sig.Bitrate/1e6, sig.Duration)
	}
	if node.isFailed {
		return
	}

	tx.onAir = true
	for _, rn := range d.radioModel.TxStart(node.radioNode, sig) {
		d.nodes[rn.Id].notifyMedium(MediumBusy)
	}
}

// endSignal ends the signal of node. The sender is told first; then every receiver gets the frame or
// the error indication, followed by the medium idle notification. A truncated signal, of a node deleted
// while transmitting, is corrupted at all receivers.
func (d *Dispatcher) endSignal(node *Node, truncated bool) {
	tx := node.tx
	logger.AssertNotNil(tx)
	node.tx = nil

	var receptions []radiomodel.Reception
	if tx.onAir {
		receptions = d.radioModel.TxStop(node.radioNode, tx.sig)
	}
	if !truncated {
		node.Mac.OnControlIndication(ControlTxOver)
	}

	for _, rx := range receptions {
		dst := d.nodes[rx.Node.Id]
		outcome := rx.Outcome
		if truncated && outcome == radiomodel.RxSuccess {
			outcome = radiomodel.RxBitError
		}

		switch outcome {
		case radiomodel.RxSuccess:
			d.Counters.Receptions++
			frame := tx.sig.Frame.Copy()
			frame.Rx = RxInfo{Bitrate: tx.sig.Bitrate, SnrDb: rx.SnrDb}
			dst.Mac.OnFrameReceived(frame)
		case radiomodel.RxCollision:
			d.Counters.Collisions++
			dst.Mac.OnControlIndication(ControlCollision)
		case radiomodel.RxBitError:
			d.Counters.BitErrors++
			dst.Mac.OnControlIndication(ControlBitError)
		}

		if rx.MediumIdle {
			dst.notifyMedium(MediumIdle)
		}
	}
}

func (d *Dispatcher) pcapFrameWriter() {
	defer d.waitGroup.Done()

	defer func() {
		err := d.pcap.Close()
		if err != nil {
			logger.Errorf("failed to close pcap: %v", err)
		}
	}()
	for item := range d.pcapFrameChan {
		err := d.pcap.AppendFrame(pcap.Frame{Timestamp: item.Ustime, Data: item.Data, Bitrate: item.Bitrate})
		if err != nil {
			logger.Errorf("write pcap failed:%+v", err)
		}
	}
}

// AddNode creates a node and starts its MAC.
func (d *Dispatcher) AddNode(cfg *NodeConfig) *Node {
	nodeid := cfg.ID
	logger.AssertTrue(d.nodes[nodeid] == nil, "node %d already exists", nodeid)

	node := newNode(d, cfg)
	d.nodes[nodeid] = node
	delete(d.deletedNodes, nodeid)
	d.radioModel.AddNode(node.radioNode)
	d.energyAnalyser.AddNode(nodeid, d.CurTime)

	if d.cfg.DefaultWatchOn {
		level, err := logger.ParseLevelString(d.cfg.DefaultWatchLevel)
		logger.PanicIfError(err)
		d.WatchNode(nodeid, level)
	}

	node.Mac.Start()
	return node
}

// DeleteNode removes a node with all its pending timers. A frame it is transmitting is cut off.
func (d *Dispatcher) DeleteNode(id NodeId) {
	node := d.nodes[id]
	logger.AssertNotNil(node, "node %d not found", id)

	for kind, evt := range node.timers {
		if evt != nil {
			d.evtQueue.Remove(evt)
			node.timers[kind] = nil
		}
	}
	if node.tx != nil {
		for _, evt := range []*event.Event{node.tx.startEvt, node.tx.doneEvt} {
			if evt.IsQueued() {
				d.evtQueue.Remove(evt)
			}
		}
		d.endSignal(node, true)
	}

	delete(d.nodes, id)
	d.deletedNodes[id] = struct{}{}
	d.radioModel.DeleteNode(id)
	d.energyAnalyser.DeleteNode(id)
	d.UnwatchNode(id)
}

// Submit hands a frame from the upper layer of node nodeid to its MAC, at the current time.
func (d *Dispatcher) Submit(nodeid NodeId, dst MacAddr, payload []byte) {
	logger.AssertNotNil(d.nodes[nodeid], "node %d not found", nodeid)
	d.evtQueue.Add(&event.Event{
		Type:      event.EventTypeSubmit,
		Timestamp: d.CurTime,
		NodeId:    nodeid,
		Frame:     &Frame{Dst: dst, Payload: payload},
	})
}

// ScheduleTraffic queues a call of CallbackHandler.OnTraffic at the given time.
func (d *Dispatcher) ScheduleTraffic(nodeid NodeId, generatorId int, timestamp SimTime) {
	logger.AssertTrue(timestamp >= d.CurTime)
	d.evtQueue.Add(&event.Event{
		Type:        event.EventTypeTraffic,
		Timestamp:   timestamp,
		NodeId:      nodeid,
		GeneratorId: generatorId,
	})
}

func (d *Dispatcher) advanceTime(ts SimTime) {
	logger.AssertTrue(d.CurTime <= ts, "%v > %v", d.CurTime, ts)
	logger.AssertTrue(d.CurTime <= d.evtQueue.NextTimestamp())
	if d.CurTime == ts {
		return
	}
	d.CurTime = ts

	for _, id := range d.sortedNodeIds() {
		d.nodes[id].failureCtrl.OnTimeAdvanced(ts)
	}
	if d.CurTime >= d.nextEnergyTime && d.CurTime < Ever {
		d.energyAnalyser.StoreNetworkEnergy(d.CurTime)
		d.nextEnergyTime = d.CurTime.Add(energy.ComputePeriod)
	}
}

func (d *Dispatcher) PostAsync(trivial bool, task func()) {
	if trivial {
		select {
		case d.taskChan <- task:
			break
		default:
			break
		}
	} else {
		d.taskChan <- task
	}
}

func (d *Dispatcher) handleTasks() {
	defer func() {
		err := recover()
		if err != nil {
			logger.Errorf("dispatcher handle task failed: %+v", err)
		}
	}()

loop:
	for {
		select {
		case t := <-d.taskChan:
			t()
		default:
			break loop
		}
	}
}

// WatchNode shows the log messages of a node up to the given level.
func (d *Dispatcher) WatchNode(nodeid NodeId, level logger.Level) {
	d.watchingNodes[nodeid] = struct{}{}
	logger.SetNodeLevel(nodeid, level)
}

func (d *Dispatcher) UnwatchNode(nodeid NodeId) {
	delete(d.watchingNodes, nodeid)
	logger.SetNodeLevel(nodeid, logger.OffLevel)
}

func (d *Dispatcher) isWatching(nodeid NodeId) bool {
	_, ok := d.watchingNodes[nodeid]
	return ok
}

func (d *Dispatcher) GetWatchingNodes() []NodeId {
	ids := make([]NodeId, 0, len(d.watchingNodes))
	for id := range d.watchingNodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (d *Dispatcher) isDeleted(nodeid NodeId) bool {
	_, ok := d.deletedNodes[nodeid]
	return ok
}

func (d *Dispatcher) GetNode(id NodeId) *Node {
	return d.nodes[id]
}

func (d *Dispatcher) GetFailedCount() int {
	failCount := 0
	for _, dn := range d.nodes {
		if dn.IsFailed() {
			failCount += 1
		}
	}
	return failCount
}

// SetNodePos moves a node. Signals already on air are not affected.
func (d *Dispatcher) SetNodePos(id NodeId, x, y int) {
	node := d.nodes[id]
	logger.AssertNotNil(node)
	node.X, node.Y = x, y
	node.radioNode.SetNodePos(x, y)
}

// SetNodeFailed fails or recovers the radio of a node by hand, which ends its periodic failures.
func (d *Dispatcher) SetNodeFailed(id NodeId, fail bool) {
	node := d.nodes[id]
	logger.AssertNotNil(node)
	node.SetFailTime(NonFailTime)
	if fail {
		node.Fail()
	} else {
		node.Recover()
	}
}

func (d *Dispatcher) GetConfig() *Config {
	return &d.cfg
}

func (d *Dispatcher) GetRadioModel() radiomodel.RadioModel {
	return d.radioModel
}

func (d *Dispatcher) GetEnergyAnalyser() *energy.EnergyAnalyser {
	return d.energyAnalyser
}

// PendingEvents returns the number of queued events.
func (d *Dispatcher) PendingEvents() int {
	return d.evtQueue.Len()
}

func (d *Dispatcher) sortedNodeIds() []NodeId {
	ids := make([]NodeId, 0, len(d.nodes))
	for id := range d.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedNodes returns the nodes in node id order.
func (d *Dispatcher) SortedNodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, id := range d.sortedNodeIds() {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}
