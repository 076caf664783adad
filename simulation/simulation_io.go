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
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/mac"
	. "github.com/wlansim/dcfsim/types"
)

// ExportNetwork exports config info of network to a YAML-friendly object.
func (s *Simulation) ExportNetwork() YamlNetworkConfig {
	var rr *int = nil
	var profile *mac.Profile = nil

	// include radio-range and profile if non-default
	if s.cfg.NewNodeConfig.RadioRange != DefaultNodeConfig().RadioRange {
		rr = &s.cfg.NewNodeConfig.RadioRange
	}
	if s.cfg.Profile != mac.DefaultProfile {
		profile = &s.cfg.Profile
	}
	res := YamlNetworkConfig{
		Position:   [2]int{0, 0}, // when exporting, always a 0-offset is used.
		RadioRange: rr,
		Profile:    profile,
	}
	return res
}

// ExportNodes exports config/position info of all nodes to a YAML-friendly object.
func (s *Simulation) ExportNodes(nwConfig *YamlNetworkConfig) []YamlNodeConfig {
	nodes := s.GetNodes()
	res := make([]YamlNodeConfig, 0)
	defaultMac := mac.DefaultConfig(s.cfg.Profile)

	for _, nodeId := range nodes {
		node := s.nodes[nodeId]
		var rr *int = nil

		// include radio-range if non-default
		if (nwConfig.RadioRange != nil && node.cfg.RadioRange != *nwConfig.RadioRange) ||
			(nwConfig.RadioRange == nil && node.cfg.RadioRange != DefaultNodeConfig().RadioRange) {
			rr = &node.cfg.RadioRange
		}

		cfg := YamlNodeConfig{
			ID:         nodeId,
			Position:   [2]int{node.DNode.X, node.DNode.Y},
			RadioRange: rr,
			Mac:        macOverrides(defaultMac, node.cfg.Mac),
		}
		res = append(res, cfg)
	}
	return res
}

// ExportConfig exports the network, its nodes and the running traffic generators.
func (s *Simulation) ExportConfig() *YamlConfigFile {
	nw := s.ExportNetwork()
	cfgFile := &YamlConfigFile{
		NetworkConfig: nw,
		NodesList:     s.ExportNodes(&nw),
	}
	for _, gen := range s.Traffic() {
		cfg := gen.Cfg
		if cfg.Count > 0 {
			cfg.Count -= gen.Sent
		}
		cfgFile.TrafficList = append(cfgFile.TrafficList, cfg)
	}
	return cfgFile
}

// macOverrides returns the MAC parameters that differ from the defaults, or nil if there are none.
func macOverrides(defaults *mac.Config, cfg *mac.Config) *yaml.Node {
	var defNode, cfgNode yaml.Node
	if err := defNode.Encode(defaults); err != nil {
		logger.Panicf("encode MAC config: %v", err)
	}
	if err := cfgNode.Encode(cfg); err != nil {
		logger.Panicf("encode MAC config: %v", err)
	}

	res := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	for i := 0; i+1 < len(cfgNode.Content); i += 2 {
		key, value := cfgNode.Content[i], cfgNode.Content[i+1]
		defValue := defNode.Content[i+1]
		defData, _ := yaml.Marshal(defValue)
		cfgData, _ := yaml.Marshal(value)
		if string(defData) != string(cfgData) {
			res.Content = append(res.Content, key, value)
		}
	}
	if len(res.Content) == 0 {
		return nil
	}
	return res
}

func (s *Simulation) ImportNodes(nwConfig YamlNetworkConfig, nodes []YamlNodeConfig) error {
	allOk := true
	rr := s.cfg.NewNodeConfig.RadioRange
	if nwConfig.RadioRange != nil {
		rr = *nwConfig.RadioRange
	}
	profile := s.cfg.Profile
	if nwConfig.Profile != nil {
		profile = *nwConfig.Profile
	}
	posOffset := nwConfig.Position
	nodeIdOffset := 0
	if nwConfig.BaseId != nil {
		nodeIdOffset = *nwConfig.BaseId
	}

	for _, node := range nodes {
		cfg := DefaultNodeConfig()

		// fill config with entries from YAML 'node'
		cfg.ID = node.ID + nodeIdOffset
		if node.RadioRange != nil {
			cfg.RadioRange = *node.RadioRange
		} else {
			cfg.RadioRange = rr
		}
		cfg.IsAutoPlaced = false
		cfg.X = node.Position[0] + posOffset[0]
		cfg.Y = node.Position[1] + posOffset[1]

		macCfg, err := node.macConfig(profile)
		if err == nil {
			cfg.Mac = macCfg
			_, err = s.AddNode(&cfg)
		}
		if err != nil {
			logger.Warnf("Warn: %s", err)
			allOk = false // continue trying to import remaining nodes
		}
	}

	if !allOk {
		return fmt.Errorf("not all nodes could be imported - see error log above")
	}
	return nil
}

// ImportTraffic starts the traffic generators of a network file. Node ids are shifted like the nodes'.
func (s *Simulation) ImportTraffic(nwConfig YamlNetworkConfig, traffic []TrafficConfig) error {
	allOk := true
	nodeIdOffset := 0
	if nwConfig.BaseId != nil {
		nodeIdOffset = *nwConfig.BaseId
	}

	for _, cfg := range traffic {
		cfg.Src += nodeIdOffset
		if !cfg.Dst.IsBroadcast() {
			cfg.Dst += MacAddr(nodeIdOffset)
		}
		if _, err := s.AddTraffic(cfg); err != nil {
			logger.Warnf("Warn: %s", err)
			allOk = false
		}
	}

	if !allOk {
		return fmt.Errorf("not all traffic could be imported - see error log above")
	}
	return nil
}

// ImportConfig adds the nodes and traffic of a network file to the simulation.
func (s *Simulation) ImportConfig(cfgFile *YamlConfigFile) error {
	if err := s.ImportNodes(cfgFile.NetworkConfig, cfgFile.NodesList); err != nil {
		return err
	}
	return s.ImportTraffic(cfgFile.NetworkConfig, cfgFile.TrafficList)
}
