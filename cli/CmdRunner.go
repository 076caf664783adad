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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wlansim/dcfsim/dispatcher"
	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/progctx"
	"github.com/wlansim/dcfsim/radiomodel"
	"github.com/wlansim/dcfsim/simulation"
	. "github.com/wlansim/dcfsim/types"
)

const (
	Prompt = "> "

	defaultDataSize = 100
	defaultInterval = 10 * time.Millisecond
)

var CommandInterruptedError = errors.New("command interrupted due to simulation exit")

type CommandContext struct {
	context.Context
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	var itemsYaml yaml.Node

	err := itemsYaml.Encode(items)
	logger.PanicIfError(err)

	for _, content := range itemsYaml.Content {
		content.Style = yaml.FlowStyle
	}

	data, err := yaml.Marshal(&itemsYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

// CmdRunner executes CLI commands on a running simulation. Commands that touch simulation state are run in
// the dispatcher's goroutine.
type CmdRunner struct {
	sim  *simulation.Simulation
	ctx  *progctx.ProgCtx
	help Help
}

func NewCmdRunner(ctx *progctx.ProgCtx, sim *simulation.Simulation) *CmdRunner {
	return &CmdRunner{
		ctx:  ctx,
		sim:  sim,
		help: newHelp(),
	}
}

func (rt *CmdRunner) RunCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}

		if err := parseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

// HandleCommand is part of implementation of runcli.CliHandler.
func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	return rt.RunCommand(cmdline, output)
}

func (rt *CmdRunner) GetPrompt() string {
	return Prompt
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if cmd.Add != nil {
		rt.executeAddNode(cc, cmd.Add)
	} else if cmd.Broadcast != nil {
		rt.executeBroadcast(cc, cmd.Broadcast)
	} else if cmd.Counters != nil {
		rt.executeCounters(cc, cmd.Counters)
	} else if cmd.Del != nil {
		rt.executeDelNode(cc, cmd.Del)
	} else if cmd.Energy != nil {
		rt.executeEnergy(cc, cmd.Energy)
	} else if cmd.Exit != nil {
		rt.executeExit(cc, cmd.Exit)
	} else if cmd.Go != nil {
		rt.executeGo(cc, cmd.Go)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Kpi != nil {
		rt.executeKpi(cc, cmd.Kpi)
	} else if cmd.Load != nil {
		rt.executeLoad(cc, cmd.Load)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Move != nil {
		rt.executeMoveNode(cc, cmd.Move)
	} else if cmd.Node != nil {
		rt.executeNode(cc, cmd.Node)
	} else if cmd.Nodes != nil {
		rt.executeLsNodes(cc, cmd.Nodes)
	} else if cmd.Radio != nil {
		rt.executeRadio(cc, cmd.Radio)
	} else if cmd.RadioModel != nil {
		rt.executeRadioModel(cc, cmd.RadioModel)
	} else if cmd.Save != nil {
		rt.executeSave(cc, cmd.Save)
	} else if cmd.Send != nil {
		rt.executeSend(cc, cmd.Send)
	} else if cmd.Time != nil {
		rt.executeTime(cc, cmd.Time)
	} else if cmd.Traffic != nil {
		rt.executeTraffic(cc, cmd.Traffic)
	} else if cmd.Unwatch != nil {
		rt.executeUnwatch(cc, cmd.Unwatch)
	} else if cmd.Watch != nil {
		rt.executeWatch(cc, cmd.Watch)
	} else {
		logger.Panicf("unimplemented command: %#v", cmd)
	}
}

func (rt *CmdRunner) executeGo(cc *CommandContext, cmd *GoCmd) {
	if cmd.Ever != nil {
		for rt.ctx.Err() == nil && cc.Err() == nil { // run until the simulation exits
			rt.goWait(cc, time.Hour)
		}
		return
	}

	timeDurToGo, err := time.ParseDuration(cmd.Time)
	if err != nil {
		timeDurToGo, err = time.ParseDuration(cmd.Time + "s") // try parsing as seconds
		if err != nil {
			cc.errorf("could not parse time duration: %s", cmd.Time)
			return
		}
	}
	rt.goWait(cc, timeDurToGo)
}

// goWait runs the simulation for duration and blocks until done.
func (rt *CmdRunner) goWait(cc *CommandContext, duration time.Duration) {
	if rt.ctx.Err() != nil {
		cc.error(CommandInterruptedError)
		return
	}
	select {
	case <-rt.sim.Go(duration):
	case <-rt.ctx.Done():
		cc.error(CommandInterruptedError)
	}
}

func (rt *CmdRunner) postAsyncWait(cc *CommandContext, f func(sim *simulation.Simulation)) {
	done := make(chan struct{})
	if rt.sim.PostAsync(func() {
		defer close(done) // even if f() fails execution, 'done' should be closed.
		f(rt.sim)         // executing task (later) may set cc.err status if error occurs.
	}) {
		select {
		case <-done:
		case <-rt.ctx.Done():
			cc.error(CommandInterruptedError)
		}
	} else {
		cc.error(CommandInterruptedError) // report cc error if not accepted.
	}
}

func (rt *CmdRunner) executeAddNode(cc *CommandContext, cmd *AddCmd) {
	logger.Debugf("Add: %#v", *cmd)
	cfg := cc.rt.sim.GetConfig().NewNodeConfig // copy current new-node config for simulation, and modify it.

	if cmd.X != nil {
		cfg.X = *cmd.X
		cfg.IsAutoPlaced = false
	}
	if cmd.Y != nil {
		cfg.Y = *cmd.Y
		cfg.IsAutoPlaced = false
	}
	if cmd.Id != nil {
		cfg.ID = cmd.Id.Val
	}
	if cmd.RadioRange != nil {
		cfg.RadioRange = cmd.RadioRange.Val
	}

	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		node, err := sim.AddNode(&cfg)
		if err != nil {
			cc.error(err)
			return
		}

		cc.outputf("%d\n", node.Id)
	})
}

func (rt *CmdRunner) executeDelNode(cc *CommandContext, cmd *DelCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		for _, sel := range getUniqueAndSorted(cmd.Nodes) {
			node, _ := rt.getNode(sim, sel)
			if node == nil {
				cc.outputf("Warn: node %d not found, skipping\n", sel.Id)
				continue
			}

			err := sim.DeleteNode(node.Id)
			if err != nil {
				cc.errorf("node %d, %+v", sel.Id, err)
			}
		}
	})
}

// executeExit cancels the simulation context. The simulation stops itself in the dispatcher goroutine.
func (rt *CmdRunner) executeExit(cc *CommandContext, cmd *ExitCmd) {
	rt.ctx.Cancel("exit")
}

func (rt *CmdRunner) trafficConfig(src NodeSelector, dst MacAddr, dataSize *DataSizeFlag, count *CountFlag,
	interval *IntervalFlag, start *StartFlag, poisson *PoissonFlag) simulation.TrafficConfig {
	cfg := simulation.TrafficConfig{
		Src:         src.Id,
		Dst:         dst,
		PayloadSize: defaultDataSize,
		Count:       1,
		Interval:    defaultInterval,
		Poisson:     poisson != nil,
	}
	if dataSize != nil {
		cfg.PayloadSize = dataSize.Val
	}
	if count != nil {
		cfg.Count = count.Val
	}
	if interval != nil {
		cfg.Interval = time.Duration(interval.Val) * time.Millisecond
	}
	if start != nil {
		cfg.Start = time.Duration(start.Val) * time.Millisecond
	}
	return cfg
}

func (rt *CmdRunner) executeSend(cc *CommandContext, cmd *SendCmd) {
	logger.Debugf("send %#v", cmd)
	cfg := rt.trafficConfig(cmd.Src, MacAddr(cmd.Dst.Id), cmd.DataSize, cmd.Count, cmd.Interval, cmd.Start,
		cmd.Poisson)
	rt.addTraffic(cc, cfg)
}

func (rt *CmdRunner) executeBroadcast(cc *CommandContext, cmd *BroadcastCmd) {
	logger.Debugf("broadcast %#v", cmd)
	cfg := rt.trafficConfig(cmd.Src, BroadcastAddr, cmd.DataSize, cmd.Count, cmd.Interval, cmd.Start,
		cmd.Poisson)
	rt.addTraffic(cc, cfg)
}

func (rt *CmdRunner) addTraffic(cc *CommandContext, cfg simulation.TrafficConfig) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		id, err := sim.AddTraffic(cfg)
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputf("%d\n", id)
	})
}

func (rt *CmdRunner) executeTraffic(cc *CommandContext, cmd *TrafficCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		if cmd.Stop != nil {
			cc.error(sim.StopTraffic(cmd.Id))
			return
		}
		for _, gen := range sim.Traffic() {
			count := "ever"
			if gen.Cfg.Count > 0 {
				count = fmt.Sprintf("%d", gen.Cfg.Count)
			}
			cc.outputf("id=%d\tsrc=%d\tdst=%v\tsize=%d\titv=%v\tpoisson=%v\tcount=%s\tsent=%d\n", gen.Id,
				gen.Cfg.Src, gen.Cfg.Dst, gen.Cfg.PayloadSize, gen.Cfg.Interval, gen.Cfg.Poisson, count, gen.Sent)
		}
	})
}

func (rt *CmdRunner) getNode(sim *simulation.Simulation, sel NodeSelector) (*simulation.Node, *dispatcher.Node) {
	if sel.Id > 0 {
		return sim.Nodes()[sel.Id], sim.Dispatcher().GetNode(sel.Id)
	}

	return nil, nil
}

func (rt *CmdRunner) executeNode(cc *CommandContext, cmd *NodeCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		node, dnode := rt.getNode(sim, cmd.Node)
		if node == nil {
			cc.errorf("node %d not found", cmd.Node.Id)
			return
		}

		dcf := dnode.Mac
		short, long := dcf.RetryCounts()
		cc.outputf("id=%d\tx=%d\ty=%d\trr=%d\tprofile=%s\tfailed=%v\n", node.Id, dnode.X, dnode.Y,
			node.GetConfig().RadioRange, dcf.Config().Profile, dnode.IsFailed())
		cc.outputf("state=%v\tmedium=%v\tqueue=%d/%d\tretry=%d/%d\tbackoff=%v\tifs=%v\n", dcf.State(),
			dnode.MediumState(), dcf.QueueLen(), dcf.Config().QueueLength, short, long, dcf.RemainingBackoff(),
			dcf.CurrentIfs())

		counters := node.GetCounters("mac", "mac.")
		counters.Add(node.GetCounters("node", "node."))
		counters.Add(node.GetCounters("radio", "radio."))
		names := make([]string, 0, len(counters))
		for name := range counters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cc.outputf("%-24s %d\n", name, counters[name])
		}
	})
}

func (rt *CmdRunner) executeRadio(cc *CommandContext, radio *RadioCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		for _, sel := range radio.Nodes {
			node, _ := rt.getNode(sim, sel)
			if node == nil {
				cc.errorf("node %d not found", sel.Id)
				continue
			}

			if radio.On != nil {
				cc.error(sim.SetNodeFailed(node.Id, false))
			} else if radio.Off != nil {
				cc.error(sim.SetNodeFailed(node.Id, true))
			} else if radio.FailTime != nil {
				if radio.FailTime.FailDuration > 0 && radio.FailTime.FailInterval > radio.FailTime.FailDuration {
					cc.error(sim.SetFailTime(node.Id, dispatcher.FailTime{
						FailDuration: time.Duration(radio.FailTime.FailDuration * float64(time.Second)),
						FailInterval: time.Duration(radio.FailTime.FailInterval * float64(time.Second)),
					}))
				} else if radio.FailTime.FailInterval <= radio.FailTime.FailDuration && radio.FailTime.FailDuration > 0 {
					cc.errorf("ft parameter: fail-duration must be < fail-interval")
				} else {
					cc.error(sim.SetFailTime(node.Id, dispatcher.NonFailTime))
				}
			}
		}
	})
}

func (rt *CmdRunner) executeMoveNode(cc *CommandContext, cmd *MoveCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.MoveNodeTo(cmd.Target.Id, cmd.X, cmd.Y))
	})
}

func (rt *CmdRunner) executeLsNodes(cc *CommandContext, cmd *NodesCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		for _, nodeid := range sim.GetNodes() {
			dnode := sim.Dispatcher().GetNode(nodeid)
			cc.outputf("id=%d\tx=%d\ty=%d\tstate=%v\tqueue=%d\tfailed=%v\n", nodeid, dnode.X, dnode.Y,
				dnode.Mac.State(), dnode.Mac.QueueLen(), dnode.IsFailed())
		}
	})
}

func (rt *CmdRunner) executeCounters(cc *CommandContext, counters *CountersCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		d := sim.Dispatcher()
		countersVal := reflect.ValueOf(d.Counters)
		countersTyp := reflect.TypeOf(d.Counters)
		for i := 0; i < countersVal.NumField(); i++ {
			fname := countersTyp.Field(i).Name
			fval := countersVal.Field(i)
			cc.outputf("%-40s %v\n", fname, fval.Uint())
		}
	})
}

func (rt *CmdRunner) executeRadioModel(cc *CommandContext, cmd *RadioModelCmd) {
	var name string
	var params radiomodel.RadioModelParams
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		model := sim.Dispatcher().GetRadioModel()
		name = model.GetName()
		params = *model.GetParameters()
	})
	if cc.Err() == nil {
		cc.outputf("%v\n", name)
		cc.outputItemsAsYaml(params)
	}
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		if cmd.Level == "" {
			cc.outputf("%v\n", sim.GetLogLevel())
			return
		}
		level, err := logger.ParseLevelString(cmd.Level)
		if err != nil {
			cc.error(err)
			return
		}
		sim.SetLogLevel(level)
	})
}

func (rt *CmdRunner) executeWatch(cc *CommandContext, cmd *WatchCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		var level = logger.DefaultLevel
		if len(cmd.Level) > 0 {
			var err error
			if level, err = logger.ParseLevelString(cmd.Level); err != nil {
				cc.error(err)
				return
			}
		}
		nodesToWatch := cmd.Nodes

		if len(cmd.Nodes) == 0 && len(cmd.All) == 0 && len(cmd.Default) == 0 && len(cmd.Level) == 0 {
			// variant: 'watch'
			watchedList := strings.Trim(fmt.Sprintf("%v", sim.Dispatcher().GetWatchingNodes()), "[]")
			cc.outputf("%v\n", watchedList)
			return
		} else if len(cmd.Nodes) == 0 && len(cmd.All) == 0 && len(cmd.Default) > 0 && len(cmd.Level) > 0 {
			// variant: 'watch default <level>'
			sim.Dispatcher().GetConfig().DefaultWatchOn = level != logger.OffLevel
			sim.Dispatcher().GetConfig().DefaultWatchLevel = cmd.Level
			return
		} else if len(cmd.Nodes) == 0 && len(cmd.All) == 0 && len(cmd.Default) > 0 && len(cmd.Level) == 0 {
			// variant: 'watch default'
			watchLevelDefault := logger.OffLevelString
			if sim.Dispatcher().GetConfig().DefaultWatchOn {
				watchLevelDefault = sim.Dispatcher().GetConfig().DefaultWatchLevel
			}
			cc.outputf("%s\n", watchLevelDefault)
			return
		} else if len(cmd.Nodes) == 0 && len(cmd.All) > 0 && len(cmd.Default) == 0 {
			// variant: 'watch all [<level>]'
			for _, nodeid := range sim.GetNodes() {
				nodesToWatch = append(nodesToWatch, NodeSelector{Id: nodeid})
			}
		} else if len(cmd.Nodes) > 0 && len(cmd.All) == 0 && len(cmd.Default) == 0 {
			// variant: 'watch <nodeid> [<nodeid> ...] [<level>]'
		} else {
			cc.errorf("watch: unsupported combination of command options")
			return
		}

		for _, sel := range nodesToWatch {
			node, _ := rt.getNode(sim, sel)
			if node == nil {
				cc.errorf("node %d not found", sel.Id)
				continue
			}
			sim.Dispatcher().WatchNode(node.Id, level)
		}
	})
}

func (rt *CmdRunner) executeUnwatch(cc *CommandContext, cmd *UnwatchCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		// if no node-number(s) given, unwatch all.
		if len(cmd.Nodes) == 0 {
			for _, n := range sim.Dispatcher().GetWatchingNodes() {
				sim.Dispatcher().UnwatchNode(n)
			}
		} else {
			for _, sel := range cmd.Nodes {
				node, _ := rt.getNode(sim, sel)
				if node == nil {
					cc.outputf("Warn: node %d not found, skipping\n", sel.Id)
					continue
				}
				sim.Dispatcher().UnwatchNode(node.Id)
			}
		}
	})
}

func (rt *CmdRunner) executeTime(cc *CommandContext, cmd *TimeCmd) {
	var dispTime SimTime
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		dispTime = sim.Dispatcher().CurTime
	})
	if cc.Err() == nil {
		cc.outputf("%d\n", dispTime.Us())
	}
}

func (rt *CmdRunner) executeKpi(cc *CommandContext, cmd *KpiCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		km := sim.GetKpiManager()
		if cmd.Start != nil {
			km.Stop()
			km.Start()
		} else if cmd.Stop != nil {
			km.Stop()
		} else if cmd.Save != nil {
			var err error
			if len(cmd.Name) > 0 {
				err = km.SaveFile(cmd.Name)
			} else {
				err = km.SaveDefaultFile()
			}
			if err != nil {
				cc.error(err)
			}
		} else {
			data, err := json.MarshalIndent(km.Data(), "", "    ")
			if err != nil {
				cc.error(err)
				return
			}
			cc.outputf("%s\n", data)
		}
	})
}

func (rt *CmdRunner) executeEnergy(cc *CommandContext, energy *EnergyCmd) {
	if energy.Save != nil {
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			name := energy.Name
			if len(name) == 0 {
				name = fmt.Sprintf("%d_energy", sim.GetConfig().Id)
			}
			cc.error(sim.GetEnergyAnalyser().SaveEnergyDataToFile(sim.GetConfig().OutputDir, name,
				sim.Dispatcher().CurTime))
		})
	} else {
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			ea := sim.GetEnergyAnalyser()
			for _, nodeid := range sim.GetNodes() {
				radio := ea.GetNode(nodeid)
				if radio == nil {
					continue
				}
				radio.ComputeRadioState(sim.Dispatcher().CurTime)
				e := radio.Energy()
				cc.outputf("id=%d\tsleep=%.3f\ttx=%.3f\trx=%.3f\tswitching=%.3f\ttotal=%.3f (mJ)\n", nodeid,
					e.Sleep, e.Tx, e.Rx, e.Switching, e.Total())
			}
		})
	}
}

func (rt *CmdRunner) executeLoad(cc *CommandContext, cmd *LoadCmd) {
	cfgFile, err := simulation.LoadYamlConfig(cmd.Filename)
	if err != nil {
		cc.error(err)
		return
	}
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.ImportConfig(cfgFile))
	})
}

func (rt *CmdRunner) executeSave(cc *CommandContext, cmd *SaveCmd) {
	var cfgFile *simulation.YamlConfigFile
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cfgFile = sim.ExportConfig()
	})
	if cfgFile != nil {
		cc.error(simulation.SaveYamlConfig(cmd.Filename, cfgFile))
	}
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		cc.outputStr(rt.help.outputCommandHelp(cmd.HelpTopic))
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}
