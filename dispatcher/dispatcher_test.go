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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlansim/dcfsim/mac"
	"github.com/wlansim/dcfsim/pcap"
	"github.com/wlansim/dcfsim/prng"
	"github.com/wlansim/dcfsim/progctx"
	. "github.com/wlansim/dcfsim/types"
)

type delivery struct {
	nodeid  NodeId
	src     MacAddr
	payload []byte
}

type drop struct {
	nodeid NodeId
	reason DropReason
}

type recordingHandler struct {
	delivered []delivery
	dropped   []drop
	traffic   []int
	failed    []NodeId
	recovered []NodeId
}

func (h *recordingHandler) OnFrameDelivered(nodeid NodeId, src MacAddr, payload []byte) {
	h.delivered = append(h.delivered, delivery{nodeid, src, payload})
}

func (h *recordingHandler) OnFrameDropped(nodeid NodeId, frame *Frame, reason DropReason) {
	h.dropped = append(h.dropped, drop{nodeid, reason})
}

func (h *recordingHandler) OnTraffic(nodeid NodeId, generatorId int) {
	h.traffic = append(h.traffic, generatorId)
}

func (h *recordingHandler) OnNodeFail(nodeid NodeId) {
	h.failed = append(h.failed, nodeid)
}

func (h *recordingHandler) OnNodeRecover(nodeid NodeId) {
	h.recovered = append(h.recovered, nodeid)
}

func newTestDispatcher(t *testing.T, modify func(cfg *Config)) (*Dispatcher, *recordingHandler) {
	prng.Init(1)
	cfg := DefaultConfig()
	cfg.PcapEnabled = false
	if modify != nil {
		modify(cfg)
	}
	h := &recordingHandler{}
	d, err := NewDispatcher(progctx.New(context.Background()), cfg, h)
	require.NoError(t, err)
	return d, h
}

func addNode(d *Dispatcher, id NodeId, x, y int) *Node {
	cfg := DefaultNodeConfig()
	cfg.ID = id
	cfg.X, cfg.Y = x, y
	cfg.Mac.RtsCtsThreshold = 2000
	return d.AddNode(cfg)
}

func TestUnknownRadioModel(t *testing.T) {
	_, err := NewDispatcher(progctx.New(context.Background()), &Config{RadioModel: "nosuchmodel"}, nil)
	assert.Error(t, err)
}

func TestUnicastDelivered(t *testing.T) {
	d, h := newTestDispatcher(t, nil)
	n1 := addNode(d, 1, 0, 0)
	n2 := addNode(d, 2, 100, 0)

	payload := []byte("hello")
	d.Submit(1, 2, payload)
	d.goFor(100 * time.Millisecond)

	require.Len(t, h.delivered, 1)
	assert.Equal(t, delivery{2, 1, payload}, h.delivered[0])
	assert.EqualValues(t, 1, n2.Stats.Delivered)
	assert.EqualValues(t, len(payload), n2.Stats.BytesDelivered)
	assert.EqualValues(t, 1, n1.Mac.Counters.Acked)
	assert.Equal(t, mac.StateIdle, n1.Mac.State())
	assert.EqualValues(t, 2, d.Counters.Receptions)
	assert.Equal(t, d.Counters.TxStartEvents, d.Counters.TxDoneEvents)
	assert.Equal(t, SimTime(100*time.Millisecond), d.CurTime)
	assert.Empty(t, h.dropped)
}

func TestBroadcastReachesAllInRange(t *testing.T) {
	d, h := newTestDispatcher(t, nil)
	addNode(d, 1, 0, 0)
	addNode(d, 2, 50, 0)
	addNode(d, 3, 0, 50)
	addNode(d, 4, 500, 500)

	d.Submit(1, BroadcastAddr, []byte{1, 2, 3})
	d.goFor(50 * time.Millisecond)

	require.Len(t, h.delivered, 2)
	assert.Equal(t, 2, h.delivered[0].nodeid)
	assert.Equal(t, 3, h.delivered[1].nodeid)
	assert.EqualValues(t, 1, d.GetNode(1).GetRadioStats().NumFramesTx)
}

func TestOutOfRangeHitsRetryLimit(t *testing.T) {
	d, h := newTestDispatcher(t, nil)
	n1 := addNode(d, 1, 0, 0)
	addNode(d, 2, 1000, 0)

	d.Submit(1, 2, make([]byte, 10))
	d.goFor(time.Second)

	require.Len(t, h.dropped, 1)
	assert.Equal(t, drop{1, DropRetryLimit}, h.dropped[0])
	assert.EqualValues(t, 1, n1.Stats.RetryDrops)
	assert.EqualValues(t, n1.Mac.Config().ShortRetryLimit, n1.Mac.Counters.AckTimeouts)
	assert.Empty(t, h.delivered)
}

func TestHiddenTerminalsCollide(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)
	n1 := addNode(d, 1, 0, 0)
	n2 := addNode(d, 2, 100, 0)
	n3 := addNode(d, 3, 200, 0)

	d.Submit(1, 2, make([]byte, 1000))
	d.Submit(3, 2, make([]byte, 1000))
	// each DATA frame is about 8.5 ms on air at 1 Mbit/s; the first retries collide again
	d.goFor(25 * time.Millisecond)

	assert.GreaterOrEqual(t, d.Counters.Collisions, uint64(2))
	assert.EqualValues(t, 0, d.Counters.Receptions)
	assert.Greater(t, n2.Mac.Counters.RxErrors, uint64(0))
	assert.EqualValues(t, 0, n2.Mac.Counters.AckSent)
	assert.EqualValues(t, 0, n2.Stats.Delivered)
	assert.Greater(t, n1.Mac.Counters.AckTimeouts, uint64(0))
	assert.Greater(t, n3.Mac.Counters.AckTimeouts, uint64(0))
}

func TestDeleteTransmittingNode(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)
	n1 := addNode(d, 1, 0, 0)
	n2 := addNode(d, 2, 100, 0)

	d.Submit(1, 2, make([]byte, 1000))
	d.goFor(2 * time.Millisecond)
	require.NotNil(t, n1.tx)
	require.True(t, n1.tx.onAir)
	assert.Equal(t, MediumBusy, n2.MediumState())

	d.DeleteNode(1)
	assert.Nil(t, d.GetNode(1))
	assert.EqualValues(t, 1, d.Counters.BitErrors)
	assert.Equal(t, MediumIdle, n2.MediumState())
	assert.Equal(t, n2.Mac.Config().Eifs, n2.Mac.CurrentIfs())

	d.goFor(20 * time.Millisecond)
	assert.Equal(t, 0, d.PendingEvents())
	assert.EqualValues(t, 0, n2.Stats.Delivered)
}

func TestNodeFailure(t *testing.T) {
	d, h := newTestDispatcher(t, nil)
	n1 := addNode(d, 1, 0, 0)
	addNode(d, 2, 100, 0)

	d.SetNodeFailed(2, true)
	assert.Equal(t, []NodeId{2}, h.failed)
	assert.Equal(t, 1, d.GetFailedCount())

	d.Submit(1, 2, make([]byte, 10))
	d.goFor(time.Second)
	require.Len(t, h.dropped, 1)
	assert.EqualValues(t, 1, n1.Stats.RetryDrops)

	d.SetNodeFailed(2, false)
	assert.Equal(t, []NodeId{2}, h.recovered)
	d.Submit(1, 2, make([]byte, 10))
	d.goFor(100 * time.Millisecond)
	assert.Len(t, h.delivered, 1)
}

func TestPeriodicNodeFailure(t *testing.T) {
	d, h := newTestDispatcher(t, nil)
	addNode(d, 1, 0, 0)
	n2 := addNode(d, 2, 100, 0)

	n2.SetFailTime(FailTime{FailDuration: time.Millisecond, FailInterval: 10 * time.Millisecond})
	d.goFor(100 * time.Millisecond)

	assert.Len(t, h.failed, 10)
	assert.Len(t, h.recovered, 10)
	assert.False(t, n2.IsFailed())
}

func TestScheduleTraffic(t *testing.T) {
	d, h := newTestDispatcher(t, nil)
	addNode(d, 1, 0, 0)

	d.ScheduleTraffic(1, 7, SimTime(5*time.Millisecond))
	d.ScheduleTraffic(1, 8, SimTime(time.Millisecond))
	d.goFor(3 * time.Millisecond)
	assert.Equal(t, []int{8}, h.traffic)
	d.goFor(3 * time.Millisecond)
	assert.Equal(t, []int{8, 7}, h.traffic)
	assert.EqualValues(t, 2, d.Counters.TrafficEvents)
}

func TestEnergyAccounting(t *testing.T) {
	d, _ := newTestDispatcher(t, nil)
	addNode(d, 1, 0, 0)
	addNode(d, 2, 100, 0)

	d.Submit(1, 2, make([]byte, 1000))
	d.goFor(100 * time.Millisecond)

	ea := d.GetEnergyAnalyser()
	tx := ea.GetNode(1).GetRadioStatus().SpentTx
	data := n1DataAirtime(d)
	assert.Equal(t, uint64(data), tx)
	assert.Greater(t, ea.GetNode(2).GetRadioStatus().SpentTx, uint64(0))
}

func n1DataAirtime(d *Dispatcher) time.Duration {
	cfg := d.GetNode(1).Mac.Config()
	return cfg.PacketDuration(MacHeaderBits+8*1000, cfg.Bitrate)
}

func TestPcapOutput(t *testing.T) {
	pcapFile := filepath.Join(t.TempDir(), "current.pcap")
	d, _ := newTestDispatcher(t, func(cfg *Config) {
		cfg.PcapEnabled = true
		cfg.PcapFile = pcapFile
		cfg.PcapFrameType = pcap.FrameTypeWlan
	})
	addNode(d, 1, 0, 0)
	addNode(d, 2, 100, 0)

	d.Submit(1, 2, make([]byte, 10))
	d.goFor(50 * time.Millisecond)
	d.Stop()

	info, err := os.Stat(pcapFile)
	require.NoError(t, err)
	// file header, DATA and ACK
	assert.EqualValues(t, 24+16+(MacHeaderBits/8+10)+16+AckBits/8, info.Size())
}

func TestRunLoop(t *testing.T) {
	d, h := newTestDispatcher(t, nil)
	go d.Run()

	d.PostAsync(false, func() {
		addNode(d, 1, 0, 0)
		addNode(d, 2, 10, 10)
		d.Submit(2, 1, []byte{42})
	})
	<-d.Go(10 * time.Millisecond)
	assert.Equal(t, SimTime(10*time.Millisecond), d.CurTime)
	assert.Len(t, h.delivered, 1)

	d.ctx.Cancel("test done")
	d.ctx.Wait()
	assert.True(t, d.stopped)
}
