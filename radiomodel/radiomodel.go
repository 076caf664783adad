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

package radiomodel

import (
	"math/rand"
	"strings"
	"time"

	. "github.com/wlansim/dcfsim/types"
)

// RxOutcome is what a receiver got at the end of a signal.
type RxOutcome uint8

const (
	RxNone RxOutcome = iota // not received, e.g. the radio was not listening when the signal began
	RxSuccess
	RxCollision
	RxBitError
)

func (o RxOutcome) String() string {
	switch o {
	case RxNone:
		return "none"
	case RxSuccess:
		return "success"
	case RxCollision:
		return "collision"
	case RxBitError:
		return "biterror"
	default:
		return "invalid"
	}
}

// Signal is a frame on air.
type Signal struct {
	Id       uint64
	Src      NodeId
	Frame    *Frame
	Bitrate  float64
	Start    SimTime
	Duration time.Duration
}

// Reception is the result of a signal at one receiver.
type Reception struct {
	Node    *RadioNode
	Outcome RxOutcome
	SnrDb   DbValue
	// MediumIdle is set if no other signal is incoming at the receiver anymore.
	MediumIdle bool
}

// RadioModel models the shared medium: who hears a signal, with which SNR, and whether it is received.
type RadioModel interface {
	AddNode(node *RadioNode)
	DeleteNode(id NodeId)

	// CheckRadioReachable returns whether a signal of src is sensed by dst at all.
	CheckRadioReachable(src *RadioNode, dst *RadioNode) bool

	// GetSnrDb returns the SNR of a signal of src at dst.
	GetSnrDb(src *RadioNode, dst *RadioNode) DbValue

	// TxStart puts the signal on air and returns the nodes whose medium turned busy, in node id order.
	TxStart(src *RadioNode, sig *Signal) []*RadioNode

	// TxStop ends the signal and returns the reception at every node that sensed it, in node id order.
	TxStop(src *RadioNode, sig *Signal) []Reception

	GetName() string
	GetParameters() *RadioModelParams
}

// NewRadioModel creates a new RadioModel with the given name, or nil if the model is unknown.
func NewRadioModel(modelName string, rnd *rand.Rand) RadioModel {
	var model *RadioModelDisc
	switch strings.ToLower(modelName) {
	case "ideal", "i", "1":
		model = newRadioModelDisc("Ideal", newRadioModelParams(), rnd)
	case "pathloss", "p", "2":
		params := newRadioModelParams()
		setIndoorModelParamsItu(params)
		model = newRadioModelDisc("Pathloss", params, rnd)
	case "outdoor", "o", "3":
		params := newRadioModelParams()
		setOutdoorModelParams(params)
		model = newRadioModelDisc("Outdoor", params, rnd)
	default:
		return nil
	}
	return model
}
