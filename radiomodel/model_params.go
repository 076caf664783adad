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

import "math"

type DbValue = float64

// default radio & simulation parameters
const (
	defaultNoiseFloorDbm DbValue = -95.0 // ambient noise floor (dBm)
	defaultTxPowerDbm    DbValue = 20.0
	defaultFixedSnrDb    DbValue = 30.0 // SNR of every link in the ideal model
	defaultMeterPerUnit  float64 = 1.0  // distance in meters of one position unit
)

// RadioModelParams stores model parameters for the radio model.
type RadioModelParams struct {
	MeterPerUnit      float64 // the distance in meters, equivalent to a single position unit
	IsDiscLimit       bool    // if true, signals do not reach beyond the RadioRange of the sender
	UseVariableSnr    bool    // if true, the SNR follows the pathloss model, else FixedSnrDb
	FixedSnrDb        DbValue // SNR of every link if UseVariableSnr is false
	TxPowerDbm        DbValue // transmit power of all nodes
	ExponentDb        DbValue // the exponent (dB) in the pathloss model
	FixedLossDb       DbValue // the fixed loss (dB) term in the pathloss model
	NoiseFloorDbm     DbValue // the noise floor (ambient noise, in dBm)
	SnrMinThresholdDb DbValue // signals with a lower SNR are not sensed at all
	IsBerModel        bool    // if true, frames are corrupted with a probability following the SNR
}

// newRadioModelParams gets the parameters of the ideal model, as a basis to configure further.
func newRadioModelParams() *RadioModelParams {
	return &RadioModelParams{
		MeterPerUnit:      defaultMeterPerUnit,
		IsDiscLimit:       true,
		UseVariableSnr:    false,
		FixedSnrDb:        defaultFixedSnrDb,
		TxPowerDbm:        defaultTxPowerDbm,
		NoiseFloorDbm:     defaultNoiseFloorDbm,
		SnrMinThresholdDb: math.Inf(-1),
		IsBerModel:        false,
	}
}

// custom parameter rounding function
func paround(param float64) float64 {
	return math.Round(param*100.0) / 100.0
}

// ITU-T indoor model at 2.4 GHz
func setIndoorModelParamsItu(params *RadioModelParams) {
	params.UseVariableSnr = true
	params.ExponentDb = 30.0
	params.FixedLossDb = paround(20.0*math.Log10(2400) - 28.0)
	params.SnrMinThresholdDb = -4.0
	params.IsBerModel = true
}

// experimental outdoor model with LoS, no range limit
func setOutdoorModelParams(params *RadioModelParams) {
	params.IsDiscLimit = false
	params.UseVariableSnr = true
	params.ExponentDb = 17.3
	params.FixedLossDb = paround(32.4 + 20*math.Log10(2.4))
	params.SnrMinThresholdDb = -4.0
	params.IsBerModel = true
}
