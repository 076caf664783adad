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

package energy

import (
	. "github.com/wlansim/dcfsim/types"
)

/*
 * Default power draw by radio state of a typical 802.11 interface.
 * Power in watts, time in milliseconds, resulting energy in mJ.
 */
const (
	RadioTxConsumption        float64 = 1.65
	RadioRxConsumption        float64 = 1.40 // includes idle listening
	RadioSleepConsumption     float64 = 0.045
	RadioSwitchingConsumption float64 = 1.40
)

const (
	ComputePeriod = 1e9 // in ns of simulation time
)

type RadioStatus struct {
	State          RadioState
	SpentSleep     uint64 // ns
	SpentTx        uint64
	SpentRx        uint64
	SpentSwitching uint64
	Timestamp      SimTime
}

type NetworkConsumption struct {
	Timestamp          SimTime
	EnergyConsSleep    float64
	EnergyConsTx       float64
	EnergyConsRx       float64
	EnergyConsSwitched float64
}

// NodeEnergy is the energy (mJ) a node consumed in each radio state.
type NodeEnergy struct {
	NodeId    NodeId  `yaml:"node"`
	Sleep     float64 `yaml:"sleep"`
	Tx        float64 `yaml:"tx"`
	Rx        float64 `yaml:"rx"`
	Switching float64 `yaml:"switching"`
}

func (e NodeEnergy) Total() float64 {
	return e.Sleep + e.Tx + e.Rx + e.Switching
}

func nsToMs(ns uint64) float64 {
	return float64(ns) / 1e6
}
