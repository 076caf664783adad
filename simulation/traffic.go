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
	"encoding/binary"
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/prng"
	. "github.com/wlansim/dcfsim/types"
)

// MaxPayloadSize is the largest payload that fits a DATA frame.
const MaxPayloadSize = (MaxFrameBits - MacHeaderBits) / 8

type TrafficConfig struct {
	Src         NodeId        `yaml:"src"`
	Dst         MacAddr       `yaml:"dst"` // BroadcastAddr for broadcast
	PayloadSize int           `yaml:"size"`
	Interval    time.Duration `yaml:"interval"`
	Count       int           `yaml:"count"` // 0 for unlimited
	Start       time.Duration `yaml:"start"` // delay of the first frame
	Poisson     bool          `yaml:"poisson"`
}

// TrafficGenerator submits frames of a source node at a fixed or exponentially distributed interval.
type TrafficGenerator struct {
	Id      int
	Cfg     TrafficConfig
	Sent    int
	stopped bool
	rnd     *rand.Rand
}

func (cfg *TrafficConfig) validate() error {
	if cfg.PayloadSize < 0 || cfg.PayloadSize > MaxPayloadSize {
		return errors.Errorf("payload size must be within 0..%d, got %d", MaxPayloadSize, cfg.PayloadSize)
	}
	if cfg.Count < 0 {
		return errors.Errorf("count must not be negative, got %d", cfg.Count)
	}
	if cfg.Count != 1 && cfg.Interval <= 0 {
		return errors.Errorf("interval must be positive for repeated traffic, got %v", cfg.Interval)
	}
	if cfg.Start < 0 {
		return errors.Errorf("start must not be negative, got %v", cfg.Start)
	}
	return nil
}

// AddTraffic starts a traffic generator and returns its id.
func (s *Simulation) AddTraffic(cfg TrafficConfig) (int, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}
	if s.nodes[cfg.Src] == nil {
		return 0, errors.Errorf("source node not found: %d", cfg.Src)
	}
	if cfg.Dst == MacAddr(cfg.Src) {
		return 0, errors.Errorf("node %d can not send to itself", cfg.Src)
	}

	s.lastTrafficId++
	gen := &TrafficGenerator{
		Id:  s.lastTrafficId,
		Cfg: cfg,
		rnd: prng.NewRand(prng.NewTrafficRandomSeed()),
	}
	s.traffic[gen.Id] = gen
	s.d.ScheduleTraffic(cfg.Src, gen.Id, s.d.CurTime.Add(cfg.Start))
	logger.Debugf("traffic %d started: %+v", gen.Id, cfg)
	return gen.Id, nil
}

// StopTraffic stops a generator; frames already submitted still go out.
func (s *Simulation) StopTraffic(id int) error {
	gen := s.traffic[id]
	if gen == nil {
		return errors.Errorf("traffic not found: %d", id)
	}
	gen.stopped = true
	delete(s.traffic, id)
	return nil
}

// Traffic returns the running generators sorted by id.
func (s *Simulation) Traffic() []*TrafficGenerator {
	res := make([]*TrafficGenerator, 0, len(s.traffic))
	for _, gen := range s.traffic {
		res = append(res, gen)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Id < res[j].Id
	})
	return res
}

// OnTraffic sends the next frame of a generator. It is part of implementation of dispatcher.CallbackHandler.
func (s *Simulation) OnTraffic(nodeid NodeId, generatorId int) {
	gen := s.traffic[generatorId]
	if gen == nil || gen.stopped {
		return
	}
	node := s.nodes[nodeid]
	if node == nil {
		delete(s.traffic, generatorId)
		return
	}

	node.Send(gen.Cfg.Dst, gen.nextPayload())
	gen.Sent++
	if gen.Cfg.Count > 0 && gen.Sent >= gen.Cfg.Count {
		delete(s.traffic, generatorId)
		logger.Debugf("traffic %d done after %d frames", gen.Id, gen.Sent)
		return
	}
	s.d.ScheduleTraffic(nodeid, gen.Id, s.d.CurTime.Add(gen.nextInterval()))
}

// nextPayload returns a payload starting with the generator id and the frame's sequence number,
// as far as these fit.
func (gen *TrafficGenerator) nextPayload() []byte {
	payload := make([]byte, gen.Cfg.PayloadSize)
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(gen.Id))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(gen.Sent))
	copy(payload, hdr[:])
	return payload
}

func (gen *TrafficGenerator) nextInterval() time.Duration {
	if !gen.Cfg.Poisson {
		return gen.Cfg.Interval
	}
	interval := time.Duration(gen.rnd.ExpFloat64() * float64(gen.Cfg.Interval))
	if interval <= 0 {
		interval = 1
	}
	return interval
}
