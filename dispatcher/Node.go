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
	"fmt"
	"time"

	"github.com/wlansim/dcfsim/event"
	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/mac"
	"github.com/wlansim/dcfsim/prng"
	"github.com/wlansim/dcfsim/radiomodel"
	. "github.com/wlansim/dcfsim/types"
)

// NodeStats is the upper-layer view of a node's traffic.
type NodeStats struct {
	Delivered      uint64 `yaml:"delivered"`
	BytesDelivered uint64 `yaml:"bytes-delivered"`
	QueueDrops     uint64 `yaml:"queue-drops"`
	RetryDrops     uint64 `yaml:"retry-drops"`
}

// transmission is the signal of a node from the PHY's Transmit until its end on air.
type transmission struct {
	sig      *radiomodel.Signal
	onAir    bool
	startEvt *event.Event
	doneEvt  *event.Event
}

// Node is a simulated station. It hosts the station's MAC and is the MAC's timer service, channel
// observer, PHY and upper layer.
type Node struct {
	D          *Dispatcher
	Id         NodeId
	X, Y       int
	CreateTime SimTime
	Mac        *mac.Dcf
	Stats      NodeStats

	radioNode   *radiomodel.RadioNode
	listener    mac.ChannelListener
	timers      [mac.NumTimerKinds]*event.Event
	tx          *transmission
	failureCtrl *FailureCtrl
	isFailed    bool
}

func newNode(d *Dispatcher, cfg *NodeConfig) *Node {
	logger.AssertTrue(cfg.RadioRange >= 0)

	radioCfg := &radiomodel.RadioNodeConfig{
		X:          cfg.X,
		Y:          cfg.Y,
		RadioRange: cfg.RadioRange,
	}

	node := &Node{
		D:          d,
		Id:         cfg.ID,
		X:          cfg.X,
		Y:          cfg.Y,
		CreateTime: d.CurTime,
		radioNode:  radiomodel.NewRadioNode(cfg.ID, radioCfg),
	}
	node.failureCtrl = newFailureCtrl(node, NonFailTime, prng.NewRand(prng.NewFailTimeRandomSeed()))
	node.Mac = mac.NewDcf(MacAddr(cfg.ID), cfg.Mac, prng.NewRand(prng.NewNodeRandomSeed()), node, node, node, node)
	return node
}

func (node *Node) String() string {
	spacing := ""
	if node.Id < 10 {
		spacing = " "
	}
	return fmt.Sprintf("Node<%d>%s", node.Id, spacing)
}

// Arm implements mac.TimerService.
func (node *Node) Arm(kind mac.TimerKind, delay time.Duration, handle mac.ExchangeHandle) {
	logger.AssertTrue(node.timers[kind] == nil, "%v: timer %v armed twice", node, kind)
	logger.AssertTrue(delay >= 0, "%v: timer %v armed with negative delay %v", node, kind, delay)

	evt := &event.Event{
		Type:      event.EventTypeTimer,
		Timestamp: node.D.CurTime.Add(delay),
		NodeId:    node.Id,
		TimerData: event.TimerEventData{Kind: kind, Handle: handle},
	}
	node.timers[kind] = evt
	node.D.evtQueue.Add(evt)
}

func (node *Node) Cancel(kind mac.TimerKind) {
	evt := node.timers[kind]
	logger.AssertNotNil(evt, "%v: timer %v cancelled but not armed", node, kind)
	node.D.evtQueue.Remove(evt)
	node.timers[kind] = nil
}

func (node *Node) IsArmed(kind mac.TimerKind) bool {
	return node.timers[kind] != nil
}

func (node *Node) ExpiresAt(kind mac.TimerKind) SimTime {
	if evt := node.timers[kind]; evt != nil {
		return evt.Timestamp
	}
	return Ever
}

func (node *Node) Now() SimTime {
	return node.D.CurTime
}

// RadioState implements mac.ChannelObserver.
func (node *Node) RadioState() RadioState {
	return node.radioNode.RadioState
}

func (node *Node) MediumState() MediumState {
	return node.radioNode.MediumState()
}

func (node *Node) SwitchToSend() bool {
	node.setRadioState(RadioSend)
	return true
}

func (node *Node) SwitchToRecv() bool {
	node.setRadioState(RadioRecv)
	return true
}

func (node *Node) Subscribe(l mac.ChannelListener) {
	node.listener = l
}

func (node *Node) setRadioState(state RadioState) {
	if node.radioNode.RadioState == state {
		return
	}
	node.radioNode.SetRadioState(state)
	if en := node.D.energyAnalyser.GetNode(node.Id); en != nil {
		en.SetRadioState(state, node.D.CurTime)
	}
	if node.listener != nil {
		node.listener.OnRadioStateChanged(state)
	}
}

func (node *Node) notifyMedium(state MediumState) {
	if node.listener != nil {
		node.listener.OnMediumStateChanged(state)
	}
}

// Transmit implements mac.Phy. The signal reaches the other nodes after the events already due now.
func (node *Node) Transmit(frame *Frame, bitrate float64) {
	logger.AssertTrue(node.tx == nil, "%v: transmit while transmitting", node)
	logger.AssertTrue(node.radioNode.RadioState == RadioSend, "%v: transmit with radio %v", node,
		node.radioNode.RadioState)

	d := node.D
	d.signalSeq++
	duration := node.Mac.Config().PacketDuration(frame.BitLength(), bitrate)
	sig := &radiomodel.Signal{
		Id:       d.signalSeq,
		Src:      node.Id,
		Frame:    frame,
		Bitrate:  bitrate,
		Start:    d.CurTime,
		Duration: duration,
	}
	sigData := event.SignalEventData{SignalId: sig.Id, Bitrate: bitrate, Duration: duration}
	node.tx = &transmission{
		sig: sig,
		startEvt: &event.Event{Type: event.EventTypeTxStart, Timestamp: d.CurTime, NodeId: node.Id,
			SignalData: sigData, Frame: frame},
		doneEvt: &event.Event{Type: event.EventTypeTxDone, Timestamp: d.CurTime.Add(duration), NodeId: node.Id,
			SignalData: sigData, Frame: frame},
	}
	d.evtQueue.Add(node.tx.startEvt)
	d.evtQueue.Add(node.tx.doneEvt)
}

// Deliver implements mac.UpperLayer.
func (node *Node) Deliver(src MacAddr, payload []byte) {
	node.Stats.Delivered++
	node.Stats.BytesDelivered += uint64(len(payload))
	if node.D.cbHandler != nil {
		node.D.cbHandler.OnFrameDelivered(node.Id, src, payload)
	}
}

func (node *Node) ReportDropped(frame *Frame, reason DropReason) {
	switch reason {
	case DropQueueFull:
		node.Stats.QueueDrops++
	case DropRetryLimit:
		node.Stats.RetryDrops++
	}
	if node.D.cbHandler != nil {
		node.D.cbHandler.OnFrameDropped(node.Id, frame, reason)
	}
}

func (node *Node) IsFailed() bool {
	return node.isFailed
}

// Fail takes the node's radio off the medium; the MAC keeps running but hears nothing and reaches nobody.
func (node *Node) Fail() {
	if node.isFailed {
		return
	}
	node.isFailed = true
	logger.NodeLogf(node.Id, node.D.CurTime, logger.InfoLevel, "radio failed")
	node.D.radioModel.DeleteNode(node.Id)
	if node.radioNode.MediumState() == MediumBusy {
		node.radioNode.ClearIncoming()
		node.notifyMedium(MediumIdle)
	}
	if node.D.cbHandler != nil {
		node.D.cbHandler.OnNodeFail(node.Id)
	}
}

func (node *Node) Recover() {
	if !node.isFailed {
		return
	}
	node.isFailed = false
	logger.NodeLogf(node.Id, node.D.CurTime, logger.InfoLevel, "radio recovered")
	node.D.radioModel.AddNode(node.radioNode)
	if node.D.cbHandler != nil {
		node.D.cbHandler.OnNodeRecover(node.Id)
	}
}

func (node *Node) SetFailTime(failTime FailTime) {
	node.failureCtrl.SetFailTime(failTime, node.D.CurTime)
}

func (node *Node) GetDistanceTo(other *Node) float64 {
	return node.radioNode.GetDistanceTo(other.radioNode)
}

func (node *Node) DumpStat() string {
	short, long := node.Mac.RetryCounts()
	return fmt.Sprintf("State=%-13v Queue=%d Retry=%d/%d Backoff=%v Radio=%v Medium=%v Failed=%v",
		node.Mac.State(), node.Mac.QueueLen(), short, long, node.Mac.RemainingBackoff(),
		node.radioNode.RadioState, node.radioNode.MediumState(), node.isFailed)
}

func (node *Node) GetRadioStats() radiomodel.RadioNodeStats {
	return node.radioNode.GetStats()
}
