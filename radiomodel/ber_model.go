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
	"math"
	"math/rand"
)

// applyBerModel decides whether a frame of nbits bits is corrupted at the given SNR. The bit error rate
// is the one of a coherent BPSK link, which is the most robust 802.11 modulation.
func applyBerModel(snrDb DbValue, nbits int, rnd *rand.Rand) bool {
	// at 10 dB the BER is below 1e-5 already; save the calculation.
	if snrDb >= 10.0 {
		return false
	}
	pSuccess := computePacketSuccessRate(snrDb, nbits)
	return pSuccess < 1.0 && rnd.Float64() > pSuccess
}

func computePacketSuccessRate(snrDb DbValue, nbits int) float64 {
	snr := math.Pow(10, snrDb/10.0)
	ber := 0.5 * math.Erfc(math.Sqrt(snr))
	ber = math.Min(ber, 1.0)
	return math.Pow(1.0-ber, float64(nbits))
}
