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

package event

import (
	"fmt"
	"time"

	"github.com/wlansim/dcfsim/mac"
	. "github.com/wlansim/dcfsim/types"
)

type EventType = uint8

const (
	// EventTypeTimer is the expiry of a MAC timer of a node.
	EventTypeTimer EventType = 0
	// EventTypeTxDone is the end of a signal on air.
	EventTypeTxDone EventType = 1
	// EventTypeSubmit hands an upper-layer frame to the MAC of a node.
	EventTypeSubmit EventType = 2
	// EventTypeTraffic is the next activation of a traffic generator.
	EventTypeTraffic EventType = 3
	// EventTypeTxStart is the start of a signal on air, as sensed by the other nodes.
	EventTypeTxStart EventType = 4
)

// Event is a simulation event, executed when the simulation time reaches Timestamp.
type Event struct {
	Type      EventType
	Timestamp SimTime
	NodeId    NodeId

	// supplementary data, depends on the event type.
	TimerData   TimerEventData
	SignalData  SignalEventData
	Frame       *Frame
	GeneratorId int

	seq   uint64
	index int
}

type TimerEventData struct {
	Kind   mac.TimerKind
	Handle mac.ExchangeHandle
}

type SignalEventData struct {
	SignalId uint64
	Bitrate  float64
	Duration time.Duration
}

// Copy creates a (struct) copy of the Event that is not part of any queue.
func (e *Event) Copy() Event {
	c := *e
	c.seq = 0
	c.index = -1
	return c
}

// IsQueued returns whether the event is currently in an EventQueue.
func (e *Event) IsQueued() bool {
	return e.index >= 0 && e.seq != 0
}

func (e *Event) String() string {
	switch e.Type {
	case EventTypeTimer:
		return fmt.Sprintf("Ev{timer,nid=%d,t=%v,%v,h=%d}", e.NodeId, e.Timestamp, e.TimerData.Kind,
			e.TimerData.Handle)
	case EventTypeTxStart:
		return fmt.Sprintf("Ev{txstart,nid=%d,t=%v,sig=%d,%v}", e.NodeId, e.Timestamp, e.SignalData.SignalId, e.Frame)
	case EventTypeTxDone:
		return fmt.Sprintf("Ev{txdone,nid=%d,t=%v,sig=%d,%v}", e.NodeId, e.Timestamp, e.SignalData.SignalId, e.Frame)
	case EventTypeSubmit:
		return fmt.Sprintf("Ev{submit,nid=%d,t=%v,%v}", e.NodeId, e.Timestamp, e.Frame)
	case EventTypeTraffic:
		return fmt.Sprintf("Ev{traffic,nid=%d,t=%v,gen=%d}", e.NodeId, e.Timestamp, e.GeneratorId)
	default:
		return fmt.Sprintf("Ev{%2d,nid=%d,t=%v}", e.Type, e.NodeId, e.Timestamp)
	}
}
