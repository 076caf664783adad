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

package mac

import (
	"math/rand"
	"time"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

type exchange struct {
	handle ExchangeHandle
	frame  *Frame    // received frame to be answered when SIFS expires
	sent   FrameType // type of the last frame handed to the PHY
}

// Dcf is the IEEE 802.11 distributed coordination function of one station. All methods must be
// called from the single event loop that owns the station.
type Dcf struct {
	Counters Counters

	addr    MacAddr
	cfg     Config
	timers  TimerService
	channel ChannelObserver
	phy     Phy
	upper   UpperLayer

	queue     *OutgoingFrameQueue
	backoff   *BackoffEngine
	neighbors *NeighborRateTable

	state            State
	shortRetry       int
	longRetry        int
	remainingBackoff time.Duration
	currentIfs       time.Duration
	nextIsBroadcast  bool
	switching        bool
	seq              uint16

	contentionStart  SimTime
	contentionLength time.Duration
	contentionIfs    time.Duration

	exchange   exchange
	lastHandle ExchangeHandle
}

// NewDcf creates the MAC of station addr and subscribes it to the channel. Start must be called
// once the collaborators are ready to arm timers.
func NewDcf(addr MacAddr, cfg *Config, rnd *rand.Rand, timers TimerService, channel ChannelObserver, phy Phy,
	upper UpperLayer) *Dcf {
	logger.PanicIfError(cfg.Validate())
	logger.AssertFalse(addr == InvalidAddr || addr.IsBroadcast(), "invalid station address")

	d := &Dcf{
		addr:      addr,
		cfg:       *cfg,
		timers:    timers,
		channel:   channel,
		phy:       phy,
		upper:     upper,
		queue:     NewOutgoingFrameQueue(cfg.QueueLength),
		backoff:   NewBackoffEngine(cfg.CwMin, cfg.CwMax, cfg.SlotTime, rnd),
		neighbors: NewNeighborRateTable(cfg.NeighborCacheSize, cfg.NeighborMaxAge, cfg.Bitrates, cfg.SnrThresholdsDb),
		state:     StateIdle,
		seq:       uint16(rnd.Intn(0xffff)) + 1,
	}
	d.currentIfs = cfg.Difs
	d.remainingBackoff = d.backoff.Sample(0)
	channel.Subscribe(d)
	return d
}

// Start begins sensing the channel.
func (d *Dcf) Start() {
	d.beginNewCycle()
}

// Submit accepts a frame from the upper layer. Only Dst and Payload are taken from the frame; the
// MAC fills in the rest. It returns false, after reporting the drop, if the queue is full.
func (d *Dcf) Submit(frame *Frame) bool {
	d.Counters.Submitted++
	if d.queue.IsFull() {
		d.Counters.QueueDrops++
		d.logf(logger.InfoLevel, "queue full, dropping frame to %v", frame.Dst)
		d.upper.ReportDropped(frame, DropQueueFull)
		return false
	}

	frame.Src = d.addr
	frame.Retry = false
	frame.Duration = 0
	frame.Rx = RxInfo{}
	frame.SeqCtrl = d.seq
	d.seq = NextSeqCtrl(d.seq)
	if frame.Dst.IsBroadcast() {
		frame.Type = FrameBroadcast
	} else {
		frame.Type = FrameData
	}
	if frame.BitLength() > MaxFrameBits {
		logger.Panicf("frame of %d bits exceeds %d bits, fragmentation is not supported", frame.BitLength(),
			MaxFrameBits)
	}

	d.queue.Enqueue(frame)
	d.logf(logger.DebugLevel, "queued %v, queue length %d", frame, d.queue.Len())

	if d.state == StateIdle && !d.timers.IsArmed(TimerSifs) {
		d.beginNewCycle()
	}
	return true
}

// OnFrameReceived is called by the PHY for every correctly received frame.
func (d *Dcf) OnFrameReceived(frame *Frame) {
	if d.channel.RadioState() != RadioRecv {
		d.logf(logger.DebugLevel, "radio not receiving, ignoring %v", frame)
		return
	}

	d.neighbors.Observe(frame.Src, frame.Rx.SnrDb, d.timers.Now())
	if d.timers.IsArmed(TimerContention) {
		d.timers.Cancel(TimerContention)
		d.suspendContention()
	}
	d.currentIfs = d.cfg.Difs

	switch {
	case frame.Dst == d.addr:
		d.handleMsgForMe(frame)
	case frame.Dst.IsBroadcast():
		d.handleBroadcast(frame)
	default:
		d.handleMsgNotForMe(frame.Duration, false)
	}
}

// OnControlIndication is called by the PHY for receive errors, end of transmission and radio switching.
func (d *Dcf) OnControlIndication(kind ControlKind) {
	switch kind {
	case ControlBitError, ControlCollision:
		if d.channel.RadioState() != RadioRecv {
			d.logf(logger.DebugLevel, "radio not receiving, ignoring %v", kind)
			return
		}
		d.Counters.RxErrors++
		if d.timers.IsArmed(TimerContention) {
			d.timers.Cancel(TimerContention)
			d.suspendContention()
		}
		d.handleMsgNotForMe(0, true)
	case ControlTxOver:
		d.channel.SwitchToRecv()
		d.handleEndTransmission()
	case ControlRadioSwitchingOver:
		d.switching = false
	default:
		logger.Panicf("unknown control indication %v", kind)
	}
}

// OnTimer is called when an armed timer expires.
func (d *Dcf) OnTimer(kind TimerKind, handle ExchangeHandle) {
	switch kind {
	case TimerContention:
		d.handleEndContention()
	case TimerTimeout:
		logger.AssertEqual(d.exchange.handle, handle, "timeout of a stale exchange")
		d.handleTimeout()
	case TimerNav:
		d.handleNav()
	case TimerSifs:
		d.handleEndSifs(handle)
	default:
		logger.Panicf("unknown timer %v", kind)
	}
}

func (d *Dcf) OnRadioStateChanged(state RadioState) {
	d.switching = state == RadioSwitching
}

func (d *Dcf) OnMediumStateChanged(state MediumState) {
	switch state {
	case MediumBusy:
		if d.timers.IsArmed(TimerContention) {
			d.timers.Cancel(TimerContention)
			d.suspendContention()
		}
		if d.timers.IsArmed(TimerSifs) {
			d.logf(logger.DebugLevel, "medium busy during SIFS, abandoning response to %v", d.exchange.frame)
			d.timers.Cancel(TimerSifs)
			d.exchange.frame = nil
			if d.queue.IsEmpty() {
				d.setState(StateIdle)
			} else {
				d.setState(StateContend)
			}
		}
	case MediumIdle:
		if (d.state == StateIdle || d.state == StateContend) && !d.timers.IsArmed(TimerSifs) &&
			!d.timers.IsArmed(TimerContention) {
			d.beginNewCycle()
		}
	}
}

func (d *Dcf) handleMsgForMe(frame *Frame) {
	switch d.state {
	case StateIdle, StateContend:
		switch frame.Type {
		case FrameRTS:
			d.handleRts(frame)
		case FrameData:
			d.handleData(frame)
		default:
			logger.Panicf("unexpected %v in state %v", frame, d.state)
		}
	case StateWaitData:
		if frame.Type == FrameData {
			d.handleData(frame)
		} else {
			d.logf(logger.DebugLevel, "waiting for DATA, dropping %v", frame)
		}
	case StateWaitAck:
		if frame.Type != FrameAck {
			logger.Panicf("unexpected %v in state %v", frame, d.state)
		}
		d.handleAck()
	case StateWaitCts:
		if frame.Type == FrameCTS {
			d.handleCts(frame)
		} else {
			d.logf(logger.DebugLevel, "waiting for CTS, dropping %v", frame)
		}
	case StateQuiet:
		d.logf(logger.DebugLevel, "deferring, dropping %v", frame)
	case StateBusy:
		if !d.switching {
			logger.Panicf("received %v while transmitting", frame)
		}
		d.logf(logger.DebugLevel, "radio switching, dropping %v", frame)
	}
}

// handleMsgNotForMe handles overheard frames, carrying their NAV duration, and receive errors.
func (d *Dcf) handleMsgNotForMe(duration time.Duration, rxError bool) {
	if duration > 0 {
		expiry := d.timers.Now().Add(duration)
		if d.state == StateQuiet {
			if d.timers.ExpiresAt(TimerNav) < expiry {
				d.timers.Cancel(TimerNav)
				d.timers.Arm(TimerNav, duration, NoExchange)
			}
		} else {
			if d.timers.IsArmed(TimerTimeout) {
				d.timers.Cancel(TimerTimeout)
				switch d.state {
				case StateWaitCts:
					d.rtsTransmissionFailed()
				case StateWaitAck:
					d.dataTransmissionFailed()
				}
			}
			if d.timers.IsArmed(TimerContention) {
				d.timers.Cancel(TimerContention)
				d.suspendContention()
			}
			logger.AssertFalse(d.timers.IsArmed(TimerNav))
			d.timers.Arm(TimerNav, duration, NoExchange)
			d.Counters.NavDeferrals++
			d.setState(StateQuiet)
		}
	}

	if rxError {
		switch d.state {
		case StateWaitCts:
			d.cancelTimeout()
			d.rtsTransmissionFailed()
		case StateWaitAck:
			d.cancelTimeout()
			d.dataTransmissionFailed()
		}
		d.currentIfs = d.cfg.Eifs
	}

	if !d.timers.IsArmed(TimerTimeout) {
		d.beginNewCycle()
	}
}

func (d *Dcf) handleBroadcast(frame *Frame) {
	if d.state == StateBusy && !d.switching {
		logger.Panicf("received %v while transmitting", frame)
	}

	d.Counters.Delivered++
	d.upper.Deliver(frame.Src, frame.Payload)
	if d.state == StateContend {
		d.beginNewCycle()
	}
}

func (d *Dcf) handleRts(rts *Frame) {
	d.startExchange()
	d.armSifs(rts)
}

func (d *Dcf) handleData(data *Frame) {
	if d.state == StateWaitData {
		d.cancelTimeout()
	} else {
		d.startExchange()
	}

	if d.neighbors.IsDuplicate(data.Src, data.SeqCtrl, data.Retry) {
		d.Counters.Duplicates++
		d.logf(logger.DebugLevel, "duplicate %v", data)
	} else {
		d.Counters.Delivered++
		d.upper.Deliver(data.Src, data.Payload)
	}
	d.armSifs(data)
}

func (d *Dcf) handleCts(cts *Frame) {
	d.cancelTimeout()
	d.shortRetry = 0
	d.armSifs(cts)
}

func (d *Dcf) handleAck() {
	d.cancelTimeout()
	d.resetRetryCounters()
	d.remainingBackoff = d.backoff.Sample(0)
	acked := d.queue.PopFront()
	d.Counters.Acked++
	d.logf(logger.DebugLevel, "acked %v", acked)
	d.exchange.frame = nil
	d.beginNewCycle()
}

func (d *Dcf) handleEndContention() {
	if d.channel.MediumState() == MediumBusy {
		d.suspendContention()
		return
	}

	switch d.state {
	case StateIdle:
		d.remainingBackoff = 0
	case StateContend:
		d.remainingBackoff = 0
		logger.AssertTrue(d.channel.SwitchToSend(), "radio refused to switch to send")
		head := d.queue.Front()
		logger.AssertNotNil(head)
		d.startExchange()
		switch {
		case d.nextIsBroadcast:
			d.sendBroadcast()
		case d.usesRtsCts(head):
			d.sendRts()
		default:
			d.sendData(nil)
		}
	default:
		logger.Panicf("contention ended in state %v", d.state)
	}
}

func (d *Dcf) handleEndSifs(handle ExchangeHandle) {
	logger.AssertEqual(d.exchange.handle, handle, "SIFS of a stale exchange")
	logger.AssertNotNil(d.exchange.frame)

	trigger := d.exchange.frame
	d.exchange.frame = nil
	logger.AssertTrue(d.channel.SwitchToSend(), "radio refused to switch to send")

	switch trigger.Type {
	case FrameRTS:
		d.sendCts(trigger)
	case FrameCTS:
		d.sendData(trigger)
	case FrameData:
		d.sendAck(trigger)
	default:
		logger.Panicf("SIFS after %v", trigger)
	}
}

func (d *Dcf) handleEndTransmission() {
	switch d.state {
	case StateBusy:
		if d.exchange.sent == FrameBroadcast {
			d.resetRetryCounters()
			d.remainingBackoff = d.backoff.Sample(0)
		}
		d.beginNewCycle()
	case StateWaitCts, StateWaitAck, StateWaitData:
		// the response is awaited under the timeout
	default:
		logger.Panicf("transmission ended in state %v", d.state)
	}
}

func (d *Dcf) handleTimeout() {
	switch d.state {
	case StateWaitCts:
		d.Counters.CtsTimeouts++
		d.logf(logger.DebugLevel, "CTS timeout")
		d.rtsTransmissionFailed()
	case StateWaitAck:
		d.Counters.AckTimeouts++
		d.logf(logger.DebugLevel, "ACK timeout")
		d.dataTransmissionFailed()
	case StateWaitData:
		d.Counters.DataTimeouts++
		d.logf(logger.DebugLevel, "DATA timeout")
	default:
		logger.Panicf("timeout in state %v", d.state)
	}
	d.exchange.frame = nil
	d.beginNewCycle()
}

func (d *Dcf) handleNav() {
	logger.AssertEqual(StateQuiet, d.state)
	d.beginNewCycle()
}

func (d *Dcf) beginNewCycle() {
	d.testMaxAttempts()

	if d.timers.IsArmed(TimerNav) {
		d.logf(logger.DebugLevel, "deferring until %v", d.timers.ExpiresAt(TimerNav))
		return
	}
	if d.timers.IsArmed(TimerSifs) {
		return
	}

	if !d.queue.IsEmpty() {
		d.nextIsBroadcast = d.queue.Front().Dst.IsBroadcast()
		d.setState(StateContend)
	} else {
		d.setState(StateIdle)
	}

	if !d.timers.IsArmed(TimerContention) && d.channel.MediumState() == MediumIdle {
		d.senseChannelWhileIdle(d.currentIfs + d.remainingBackoff)
	}
}

func (d *Dcf) testMaxAttempts() {
	if d.longRetry < d.cfg.LongRetryLimit && d.shortRetry < d.cfg.ShortRetryLimit {
		return
	}

	dropped := d.queue.PopFront()
	d.logf(logger.InfoLevel, "retry limit reached (short=%d long=%d), dropping %v", d.shortRetry, d.longRetry,
		dropped)
	d.resetRetryCounters()
	d.Counters.RetryDrops++
	d.upper.ReportDropped(dropped, DropRetryLimit)
}

func (d *Dcf) rtsTransmissionFailed() {
	d.longRetry++
	d.remainingBackoff = d.backoff.Sample(d.longRetry)
}

func (d *Dcf) dataTransmissionFailed() {
	head := d.queue.Front()
	logger.AssertNotNil(head)

	retry := 0
	if d.usesRtsCts(head) {
		d.longRetry++
		retry = d.longRetry
	} else {
		d.shortRetry++
		retry = d.shortRetry
	}
	head.Retry = true
	d.remainingBackoff = d.backoff.Sample(retry)
}

func (d *Dcf) sendRts() {
	head := d.queue.Front()
	br := d.retrieveBitrate(head.Dst)
	rts := &Frame{
		Src:  d.addr,
		Dst:  head.Dst,
		Type: FrameRTS,
		Duration: 3*d.cfg.Sifs + d.cfg.PacketDuration(CtsBits, br) + d.cfg.PacketDuration(head.BitLength(), br) +
			d.cfg.PacketDuration(AckBits, br),
	}
	d.timers.Arm(TimerTimeout, d.cfg.Sifs+d.cfg.PacketDuration(RtsBits, br)+d.cfg.PacketDuration(CtsBits, br)+
		d.cfg.Delta, d.exchange.handle)
	d.setState(StateWaitCts)
	d.transmit(rts, br)
}

// sendData sends a copy of the head frame, after the CTS if the exchange is protected.
func (d *Dcf) sendData(cts *Frame) {
	data := d.queue.Front().Copy()
	var br float64
	if cts != nil {
		br = cts.Rx.Bitrate
	} else {
		br = d.retrieveBitrate(data.Dst)
		if d.shortRetry > 0 {
			data.Retry = true
		}
	}
	data.Duration = d.cfg.Sifs + d.cfg.PacketDuration(AckBits, br)
	data.Rx = RxInfo{}

	d.timers.Arm(TimerTimeout, d.cfg.Sifs+d.cfg.PacketDuration(data.BitLength(), br)+
		d.cfg.PacketDuration(AckBits, br)+d.cfg.Delta, d.exchange.handle)
	d.setState(StateWaitAck)
	d.transmit(data, br)
}

func (d *Dcf) sendCts(rts *Frame) {
	br := rts.Rx.Bitrate
	ctsAirtime := d.cfg.PacketDuration(CtsBits, br)
	cts := &Frame{
		Src:      d.addr,
		Dst:      rts.Src,
		Type:     FrameCTS,
		Duration: rts.Duration - d.cfg.Sifs - ctsAirtime,
	}
	if cts.Duration < 0 {
		cts.Duration = 0
	}

	// the DATA must have ended by then
	d.timers.Arm(TimerTimeout, ctsAirtime+cts.Duration-d.cfg.Sifs-d.cfg.PacketDuration(AckBits, br)+d.cfg.Delta,
		d.exchange.handle)
	d.setState(StateWaitData)
	d.transmit(cts, br)
}

func (d *Dcf) sendAck(data *Frame) {
	ack := &Frame{
		Src:  d.addr,
		Dst:  data.Src,
		Type: FrameAck,
	}
	d.setState(StateBusy)
	d.transmit(ack, data.Rx.Bitrate)
}

func (d *Dcf) sendBroadcast() {
	frame := d.queue.PopFront()
	frame.Duration = 0
	d.setState(StateBusy)
	d.transmit(frame, d.retrieveBitrate(frame.Dst))
}

func (d *Dcf) transmit(frame *Frame, bitrate float64) {
	d.exchange.sent = frame.Type
	switch frame.Type {
	case FrameRTS:
		d.Counters.RtsSent++
	case FrameCTS:
		d.Counters.CtsSent++
	case FrameData:
		d.Counters.DataSent++
	case FrameAck:
		d.Counters.AckSent++
	case FrameBroadcast:
		d.Counters.BroadcastSent++
	}
	d.logf(logger.DebugLevel, "send %v at %.1f Mbit/s", frame, bitrate/1e6)
	d.phy.Transmit(frame, bitrate)
}

func (d *Dcf) retrieveBitrate(dst MacAddr) float64 {
	if d.cfg.AutoBitrate && !dst.IsBroadcast() && d.longRetry == 0 && d.shortRetry == 0 {
		return d.neighbors.LookupRate(dst, d.timers.Now(), d.cfg.Bitrate)
	}
	return d.cfg.Bitrate
}

func (d *Dcf) usesRtsCts(frame *Frame) bool {
	return !frame.Dst.IsBroadcast() && len(frame.Payload) > d.cfg.RtsCtsThreshold
}

func (d *Dcf) senseChannelWhileIdle(duration time.Duration) {
	d.contentionStart = d.timers.Now()
	d.contentionLength = duration
	d.contentionIfs = d.currentIfs
	d.timers.Arm(TimerContention, duration, NoExchange)
}

// suspendContention freezes the backoff of a contention period that has been cancelled or has
// expired on a busy medium.
func (d *Dcf) suspendContention() {
	elapsed := d.timers.Now().Sub(d.contentionStart)
	d.remainingBackoff = d.backoff.Suspend(d.contentionLength, elapsed, d.contentionIfs, d.remainingBackoff)
	d.logf(logger.DebugLevel, "contention suspended after %v, remaining backoff %v", elapsed, d.remainingBackoff)
}

func (d *Dcf) startExchange() {
	d.lastHandle++
	if d.lastHandle == NoExchange {
		d.lastHandle++
	}
	d.exchange = exchange{handle: d.lastHandle}
}

func (d *Dcf) armSifs(trigger *Frame) {
	logger.AssertFalse(d.timers.IsArmed(TimerSifs), "SIFS already pending")
	d.exchange.frame = trigger
	d.timers.Arm(TimerSifs, d.cfg.Sifs, d.exchange.handle)
}

func (d *Dcf) cancelTimeout() {
	if d.timers.IsArmed(TimerTimeout) {
		d.timers.Cancel(TimerTimeout)
	}
}

func (d *Dcf) resetRetryCounters() {
	d.shortRetry = 0
	d.longRetry = 0
}

func (d *Dcf) setState(state State) {
	if d.state != state {
		d.logf(logger.DebugLevel, "%v -> %v", d.state, state)
		d.state = state
	}
}

func (d *Dcf) logf(level logger.Level, format string, args ...interface{}) {
	logger.NodeLogf(NodeId(d.addr), d.timers.Now(), level, format, args...)
}

func (d *Dcf) Addr() MacAddr {
	return d.addr
}

func (d *Dcf) Config() *Config {
	return &d.cfg
}

func (d *Dcf) State() State {
	return d.state
}

// RetryCounts returns the short and the long retry counter.
func (d *Dcf) RetryCounts() (short int, long int) {
	return d.shortRetry, d.longRetry
}

func (d *Dcf) RemainingBackoff() time.Duration {
	return d.remainingBackoff
}

func (d *Dcf) CurrentIfs() time.Duration {
	return d.currentIfs
}

func (d *Dcf) QueueLen() int {
	return d.queue.Len()
}

func (d *Dcf) Neighbors() *NeighborRateTable {
	return d.neighbors
}
