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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

type fakeTimer struct {
	at     SimTime
	handle ExchangeHandle
	seq    int
}

type fakeTimers struct {
	t     *testing.T
	now   SimTime
	armed map[TimerKind]fakeTimer
	seq   int
}

func newFakeTimers(t *testing.T) *fakeTimers {
	return &fakeTimers{t: t, armed: map[TimerKind]fakeTimer{}}
}

func (ft *fakeTimers) Arm(kind TimerKind, delay time.Duration, handle ExchangeHandle) {
	if _, ok := ft.armed[kind]; ok {
		logger.Panicf("timer %v armed twice", kind)
	}
	if delay < 0 {
		logger.Panicf("timer %v armed with negative delay %v", kind, delay)
	}
	ft.seq++
	ft.armed[kind] = fakeTimer{at: ft.now.Add(delay), handle: handle, seq: ft.seq}
}

func (ft *fakeTimers) Cancel(kind TimerKind) {
	if _, ok := ft.armed[kind]; !ok {
		logger.Panicf("timer %v cancelled but not armed", kind)
	}
	delete(ft.armed, kind)
}

func (ft *fakeTimers) IsArmed(kind TimerKind) bool {
	_, ok := ft.armed[kind]
	return ok
}

func (ft *fakeTimers) ExpiresAt(kind TimerKind) SimTime {
	if tm, ok := ft.armed[kind]; ok {
		return tm.at
	}
	return Ever
}

func (ft *fakeTimers) Now() SimTime {
	return ft.now
}

// left returns the time until the timer expires.
func (ft *fakeTimers) left(kind TimerKind) time.Duration {
	require.True(ft.t, ft.IsArmed(kind), "timer %v not armed", kind)
	return ft.armed[kind].at.Sub(ft.now)
}

// advance moves the clock forward; no armed timer may be skipped.
func (ft *fakeTimers) advance(d time.Duration) {
	to := ft.now.Add(d)
	for kind, tm := range ft.armed {
		require.False(ft.t, tm.at < to, "advancing to %v skips timer %v at %v", to, kind, tm.at)
	}
	ft.now = to
}

// fire expires the earliest armed timer and returns its kind.
func (ft *fakeTimers) fire(d *Dcf) TimerKind {
	require.NotEmpty(ft.t, ft.armed, "no timer armed")
	var kind TimerKind
	var next *fakeTimer
	for k, tm := range ft.armed {
		tm := tm
		if next == nil || tm.at < next.at || (tm.at == next.at && tm.seq < next.seq) {
			kind, next = k, &tm
		}
	}
	delete(ft.armed, kind)
	ft.now = next.at
	d.OnTimer(kind, next.handle)
	return kind
}

// fireKind expires the given timer, which must be the earliest one.
func (ft *fakeTimers) fireKind(d *Dcf, kind TimerKind) {
	require.Equal(ft.t, kind, ft.fire(d))
}

type fakeChannel struct {
	radio    RadioState
	medium   MediumState
	listener ChannelListener
}

func (fc *fakeChannel) RadioState() RadioState {
	return fc.radio
}

func (fc *fakeChannel) MediumState() MediumState {
	return fc.medium
}

func (fc *fakeChannel) SwitchToSend() bool {
	fc.radio = RadioSend
	return true
}

func (fc *fakeChannel) SwitchToRecv() bool {
	fc.radio = RadioRecv
	return true
}

func (fc *fakeChannel) Subscribe(l ChannelListener) {
	fc.listener = l
}

func (fc *fakeChannel) setMedium(m MediumState) {
	fc.medium = m
	fc.listener.OnMediumStateChanged(m)
}

type sentFrame struct {
	frame   *Frame
	bitrate float64
	at      SimTime
}

type fakePhy struct {
	timers *fakeTimers
	sent   []sentFrame
}

func (fp *fakePhy) Transmit(frame *Frame, bitrate float64) {
	fp.sent = append(fp.sent, sentFrame{frame, bitrate, fp.timers.now})
}

type droppedFrame struct {
	frame  *Frame
	reason DropReason
}

type fakeUpper struct {
	delivered [][]byte
	dropped   []droppedFrame
}

func (fu *fakeUpper) Deliver(src MacAddr, payload []byte) {
	fu.delivered = append(fu.delivered, payload)
}

func (fu *fakeUpper) ReportDropped(frame *Frame, reason DropReason) {
	fu.dropped = append(fu.dropped, droppedFrame{frame, reason})
}

type harness struct {
	t       *testing.T
	cfg     *Config
	timers  *fakeTimers
	channel *fakeChannel
	phy     *fakePhy
	upper   *fakeUpper
	dcf     *Dcf
}

const (
	stationAddr MacAddr = 1
	peerAddr    MacAddr = 2
	otherAddr   MacAddr = 3
)

func newHarness(t *testing.T, modify func(cfg *Config)) *harness {
	cfg := DefaultConfig(Profile80211b)
	if modify != nil {
		modify(cfg)
	}
	h := &harness{
		t:       t,
		cfg:     cfg,
		timers:  newFakeTimers(t),
		channel: &fakeChannel{radio: RadioRecv, medium: MediumIdle},
		upper:   &fakeUpper{},
	}
	h.phy = &fakePhy{timers: h.timers}
	h.dcf = NewDcf(stationAddr, cfg, rand.New(rand.NewSource(1)), h.timers, h.channel, h.phy, h.upper)
	h.dcf.Start()
	return h
}

func (h *harness) lastSent() sentFrame {
	require.NotEmpty(h.t, h.phy.sent)
	return h.phy.sent[len(h.phy.sent)-1]
}

func (h *harness) airtime(frame *Frame, bitrate float64) time.Duration {
	return h.cfg.PacketDuration(frame.BitLength(), bitrate)
}

// completeTx lets the last transmitted frame go out on air and signals the end of transmission.
func (h *harness) completeTx() {
	last := h.lastSent()
	h.timers.advance(h.airtime(last.frame, last.bitrate))
	h.dcf.OnControlIndication(ControlTxOver)
}

// receive puts the frame on air towards the station. The medium is idle again when the frame is
// delivered, the notification follows the delivery.
func (h *harness) receive(frame *Frame, bitrate float64) {
	frame.Rx = RxInfo{Bitrate: bitrate, SnrDb: 30}
	h.channel.setMedium(MediumBusy)
	h.timers.advance(h.airtime(frame, bitrate))
	h.channel.medium = MediumIdle
	h.dcf.OnFrameReceived(frame)
	h.channel.listener.OnMediumStateChanged(MediumIdle)
}

// receiveError puts a corrupted signal of the given airtime on air.
func (h *harness) receiveError(airtime time.Duration) {
	h.channel.setMedium(MediumBusy)
	h.timers.advance(airtime)
	h.channel.medium = MediumIdle
	h.dcf.OnControlIndication(ControlBitError)
	h.channel.listener.OnMediumStateChanged(MediumIdle)
}

func (h *harness) submit(dst MacAddr, payloadLen int) bool {
	return h.dcf.Submit(&Frame{Dst: dst, Payload: make([]byte, payloadLen)})
}

func (h *harness) assertState(state State) {
	assert.Equal(h.t, state, h.dcf.State())
}

func (h *harness) assertRetries(short, long int) {
	s, l := h.dcf.RetryCounts()
	assert.Equal(h.t, short, s, "short retry")
	assert.Equal(h.t, long, l, "long retry")
}
