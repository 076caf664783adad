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
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wlansim/dcfsim/mac"
	. "github.com/wlansim/dcfsim/types"
)

// YamlConfigFile is the format of a network file, as loaded and saved by the CLI.
type YamlConfigFile struct {
	NetworkConfig YamlNetworkConfig `yaml:"network"`
	NodesList     []YamlNodeConfig  `yaml:"nodes"`
	TrafficList   []TrafficConfig   `yaml:"traffic,omitempty"`
}

type YamlNetworkConfig struct {
	Position   [2]int       `yaml:"pos-shift,flow"`
	RadioRange *int         `yaml:"radio-range,omitempty"`
	BaseId     *int         `yaml:"base-id,omitempty"`
	Profile    *mac.Profile `yaml:"profile,omitempty"`
}

type YamlNodeConfig struct {
	ID         NodeId     `yaml:"id"`
	Position   [2]int     `yaml:"pos,flow"`
	RadioRange *int       `yaml:"radio-range,omitempty"`
	Mac        *yaml.Node `yaml:"mac,omitempty"` // overrides of the profile's MAC parameters
}

// UnmarshalYAML keeps the mac mapping as a node. It is decoded over the profile's defaults once the
// profile is known.
func (ync *YamlNodeConfig) UnmarshalYAML(value *yaml.Node) error {
	type plainNodeConfig YamlNodeConfig
	var cfg plainNodeConfig
	if err := value.Decode(&cfg); err != nil {
		return err
	}

	cfg.Mac = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "mac" && value.Content[i+1].ShortTag() != "!!null" {
			cfg.Mac = value.Content[i+1]
		}
	}
	*ync = YamlNodeConfig(cfg)
	return nil
}

// LoadYamlConfig reads and parses a network file.
func LoadYamlConfig(filename string) (*YamlConfigFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	return ParseYamlConfig(data)
}

func ParseYamlConfig(data []byte) (*YamlConfigFile, error) {
	cfgFile := &YamlConfigFile{}
	if err := yaml.Unmarshal(data, cfgFile); err != nil {
		return nil, errors.Wrap(err, "parse network config")
	}
	return cfgFile, nil
}

// SaveYamlConfig writes a network file.
func SaveYamlConfig(filename string, cfgFile *YamlConfigFile) error {
	data, err := yaml.Marshal(cfgFile)
	if err != nil {
		return errors.Wrap(err, "encode network config")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0644), "write %s", filename)
}

// macConfig returns the MAC configuration of a node: the profile's defaults with the node's overrides.
func (ync *YamlNodeConfig) macConfig(profile mac.Profile) (*mac.Config, error) {
	cfg := mac.DefaultConfig(profile)
	if cfg == nil {
		return nil, errors.Errorf("unknown PHY profile: %s", profile)
	}
	if ync.Mac != nil {
		if err := ync.Mac.Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "node %d: mac", ync.ID)
		}
	}
	return cfg, nil
}
