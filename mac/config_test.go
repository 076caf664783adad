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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigs(t *testing.T) {
	for _, profile := range []Profile{Profile80211b, Profile80211a, Profile80211p} {
		cfg := DefaultConfig(profile)
		if assert.NotNil(t, cfg, profile) {
			assert.NoError(t, cfg.Validate(), profile)
			assert.Equal(t, cfg.Sifs+2*cfg.SlotTime, cfg.Difs)
			assert.Greater(t, cfg.Eifs, cfg.Difs)
		}
	}
	assert.Nil(t, DefaultConfig("80211z"))
}

func Test80211bTiming(t *testing.T) {
	cfg := DefaultConfig(Profile80211b)
	assert.Equal(t, 50*time.Microsecond, cfg.Difs)
	assert.Equal(t, 364*time.Microsecond, cfg.Eifs)
	assert.Equal(t, 304*time.Microsecond, cfg.PacketDuration(112, 1e6))
	assert.Equal(t, 202*time.Microsecond, cfg.PacketDuration(110, 11e6))
}

func TestValidate(t *testing.T) {
	for name, modify := range map[string]func(cfg *Config){
		"queue":      func(cfg *Config) { cfg.QueueLength = 0 },
		"cw":         func(cfg *Config) { cfg.CwMax = cfg.CwMin - 1 },
		"retry":      func(cfg *Config) { cfg.ShortRetryLimit = 0 },
		"difs":       func(cfg *Config) { cfg.Difs = cfg.Sifs },
		"delta":      func(cfg *Config) { cfg.Delta = 0 },
		"bitrate":    func(cfg *Config) { cfg.Bitrate = 3e6 },
		"thresholds": func(cfg *Config) { cfg.SnrThresholdsDb = nil },
		"ascending":  func(cfg *Config) { cfg.Bitrates = []float64{2e6, 1e6, 5.5e6, 11e6} },
		"neighbors":  func(cfg *Config) { cfg.NeighborCacheSize = 0 },
	} {
		cfg := DefaultConfig(Profile80211b)
		modify(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestConfigYamlOverlay(t *testing.T) {
	cfg := DefaultConfig(Profile80211a)
	err := yaml.Unmarshal([]byte(`
queue-length: 32
rts-cts-threshold: 100
auto-bitrate: true
bitrate: 12000000
slot-time: 20us
`), cfg)
	assert.NoError(t, err)
	assert.Equal(t, 32, cfg.QueueLength)
	assert.Equal(t, 100, cfg.RtsCtsThreshold)
	assert.True(t, cfg.AutoBitrate)
	assert.Equal(t, 12e6, cfg.Bitrate)
	assert.Equal(t, 20*time.Microsecond, cfg.SlotTime)
	assert.Equal(t, 16*time.Microsecond, cfg.Sifs)
	assert.NoError(t, cfg.Validate())
}
