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
	"math"
	"time"

	"github.com/pkg/errors"

	. "github.com/wlansim/dcfsim/types"
)

// Profile selects the PHY timing and rate set the MAC runs with.
type Profile string

const (
	Profile80211b Profile = "80211b"
	Profile80211a Profile = "80211a"
	Profile80211p Profile = "80211p"
)

const (
	DefaultProfile           = Profile80211b
	DefaultQueueLength       = 10
	DefaultRtsCtsThreshold   = 500 // payload bytes
	DefaultShortRetryLimit   = 7
	DefaultLongRetryLimit    = 4
	DefaultNeighborCacheSize = 16
	DefaultNeighborMaxAge    = 10 * time.Second
	DefaultDelta             = time.Nanosecond
)

// Config is the MAC configuration. It is supplied at construction time and never changes afterwards.
type Config struct {
	Profile           Profile       `yaml:"profile"`
	QueueLength       int           `yaml:"queue-length"`
	RtsCtsThreshold   int           `yaml:"rts-cts-threshold"`
	ShortRetryLimit   int           `yaml:"short-retry-limit"`
	LongRetryLimit    int           `yaml:"long-retry-limit"`
	CwMin             int           `yaml:"cw-min"`
	CwMax             int           `yaml:"cw-max"`
	SlotTime          time.Duration `yaml:"slot-time"`
	Sifs              time.Duration `yaml:"sifs"`
	Difs              time.Duration `yaml:"difs"`
	Eifs              time.Duration `yaml:"eifs"`
	PhyHeaderDuration time.Duration `yaml:"phy-header-duration"`
	Delta             time.Duration `yaml:"delta"`
	Bitrates          []float64     `yaml:"bitrates"`
	Bitrate           float64       `yaml:"bitrate"`
	AutoBitrate       bool          `yaml:"auto-bitrate"`
	SnrThresholdsDb   []float64     `yaml:"snr-thresholds"`
	NeighborCacheSize int           `yaml:"neighbor-cache-size"`
	NeighborMaxAge    time.Duration `yaml:"neighbor-max-age"`
}

// DefaultConfig returns the configuration for the given PHY profile, or nil if the profile is unknown.
func DefaultConfig(profile Profile) *Config {
	cfg := &Config{
		Profile:           profile,
		QueueLength:       DefaultQueueLength,
		RtsCtsThreshold:   DefaultRtsCtsThreshold,
		ShortRetryLimit:   DefaultShortRetryLimit,
		LongRetryLimit:    DefaultLongRetryLimit,
		CwMax:             1023,
		Delta:             DefaultDelta,
		NeighborCacheSize: DefaultNeighborCacheSize,
		NeighborMaxAge:    DefaultNeighborMaxAge,
	}

	switch profile {
	case Profile80211b:
		cfg.CwMin = 31
		cfg.SlotTime = 20 * time.Microsecond
		cfg.Sifs = 10 * time.Microsecond
		cfg.PhyHeaderDuration = 192 * time.Microsecond
		cfg.Bitrates = []float64{1e6, 2e6, 5.5e6, 11e6}
		cfg.SnrThresholdsDb = []float64{6, 9, 12}
	case Profile80211a:
		cfg.CwMin = 15
		cfg.SlotTime = 9 * time.Microsecond
		cfg.Sifs = 16 * time.Microsecond
		cfg.PhyHeaderDuration = 20 * time.Microsecond
		cfg.Bitrates = []float64{6e6, 9e6, 12e6, 18e6, 24e6, 36e6, 48e6, 54e6}
		cfg.SnrThresholdsDb = []float64{5, 6, 8, 11, 15, 18, 20}
	case Profile80211p:
		cfg.CwMin = 15
		cfg.SlotTime = 13 * time.Microsecond
		cfg.Sifs = 32 * time.Microsecond
		cfg.PhyHeaderDuration = 40 * time.Microsecond
		cfg.Bitrates = []float64{3e6, 4.5e6, 6e6, 9e6, 12e6, 18e6, 24e6, 27e6}
		cfg.SnrThresholdsDb = []float64{5, 6, 8, 11, 15, 18, 20}
	default:
		return nil
	}

	cfg.Bitrate = cfg.Bitrates[0]
	cfg.Difs = cfg.Sifs + 2*cfg.SlotTime
	cfg.Eifs = cfg.Sifs + cfg.Difs + cfg.PacketDuration(AckBits, cfg.Bitrates[0])
	return cfg
}

// Validate checks the configuration for values the MAC cannot run with.
func (cfg *Config) Validate() error {
	switch {
	case cfg.QueueLength < 1:
		return errors.Errorf("queue-length must be at least 1, got %d", cfg.QueueLength)
	case cfg.RtsCtsThreshold < 0:
		return errors.Errorf("rts-cts-threshold must not be negative, got %d", cfg.RtsCtsThreshold)
	case cfg.ShortRetryLimit < 1 || cfg.LongRetryLimit < 1:
		return errors.Errorf("retry limits must be at least 1, got short=%d long=%d", cfg.ShortRetryLimit,
			cfg.LongRetryLimit)
	case cfg.CwMin < 1 || cfg.CwMax < cfg.CwMin:
		return errors.Errorf("invalid contention window %d..%d", cfg.CwMin, cfg.CwMax)
	case cfg.SlotTime <= 0 || cfg.Sifs <= 0:
		return errors.Errorf("slot-time and sifs must be positive")
	case cfg.Difs <= cfg.Sifs:
		return errors.Errorf("difs (%v) must be longer than sifs (%v)", cfg.Difs, cfg.Sifs)
	case cfg.Eifs < cfg.Difs:
		return errors.Errorf("eifs (%v) must not be shorter than difs (%v)", cfg.Eifs, cfg.Difs)
	case cfg.PhyHeaderDuration < 0:
		return errors.Errorf("phy-header-duration must not be negative")
	case cfg.Delta <= 0 || cfg.Delta >= cfg.Sifs:
		return errors.Errorf("delta must be positive and shorter than sifs, got %v", cfg.Delta)
	case len(cfg.Bitrates) == 0:
		return errors.Errorf("no bitrates configured")
	case len(cfg.SnrThresholdsDb) != len(cfg.Bitrates)-1:
		return errors.Errorf("need %d snr-thresholds for %d bitrates, got %d", len(cfg.Bitrates)-1,
			len(cfg.Bitrates), len(cfg.SnrThresholdsDb))
	case cfg.NeighborCacheSize < 1:
		return errors.Errorf("neighbor-cache-size must be at least 1, got %d", cfg.NeighborCacheSize)
	case cfg.NeighborMaxAge < 0:
		return errors.Errorf("neighbor-max-age must not be negative")
	}

	found := false
	for i, br := range cfg.Bitrates {
		if br <= 0 || (i > 0 && br <= cfg.Bitrates[i-1]) {
			return errors.Errorf("bitrates must be positive and ascending: %v", cfg.Bitrates)
		}
		if br == cfg.Bitrate {
			found = true
		}
	}
	if !found {
		return errors.Errorf("bitrate %v is not one of %v", cfg.Bitrate, cfg.Bitrates)
	}
	return nil
}

// PacketDuration is the airtime of a frame of the given MAC length at the given bitrate, PLCP header included.
func (cfg *Config) PacketDuration(bits int, bitrate float64) time.Duration {
	return time.Duration(math.Round(float64(bits)/bitrate*1e9)) + cfg.PhyHeaderDuration
}
