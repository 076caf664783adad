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

package dcfsim_main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wlansim/dcfsim/cli"
	"github.com/wlansim/dcfsim/dispatcher"
	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/mac"
	"github.com/wlansim/dcfsim/pcap"
	"github.com/wlansim/dcfsim/progctx"
	"github.com/wlansim/dcfsim/simulation"
)

type MainArgs struct {
	Id          int
	RadioModel  string
	Profile     string
	Seed        int64
	OutputDir   string
	ConfigFile  string
	AutoGo      bool
	LogLevel    string
	LogFile     string
	WatchLevel  string
	DumpPackets bool
	NoPcap      bool
	PcapType    string
	History     string
}

var (
	args MainArgs
)

func parseArgs() {
	flag.IntVar(&args.Id, "id", 0, "simulation id, used as prefix of the output files")
	flag.StringVar(&args.RadioModel, "radiomodel", simulation.DefaultRadioModel, "radio model: ideal, pathloss, outdoor")
	flag.StringVar(&args.Profile, "profile", string(mac.DefaultProfile), "PHY profile of the nodes: 80211b, 80211a, 80211p")
	flag.Int64Var(&args.Seed, "seed", 0, "random seed; 0 for a different simulation on every run")
	flag.StringVar(&args.OutputDir, "out", simulation.DefaultOutputDir, "directory of the output files")
	flag.StringVar(&args.ConfigFile, "config", "", "YAML network file to load at startup")
	flag.BoolVar(&args.AutoGo, "autogo", false, "auto go (runs the simulation without issuing 'go' commands.)")
	flag.StringVar(&args.LogLevel, "log", "warn", "set logging level: trace, debug, info, note, warn, error.")
	flag.StringVar(&args.LogFile, "logfile", "", "also write the log to this file")
	flag.StringVar(&args.WatchLevel, "watch", "off", "set default watch level for all new nodes: off, trace, debug, info, note, warn, error.")
	flag.BoolVar(&args.DumpPackets, "dump-packets", false, "dump packets")
	flag.BoolVar(&args.NoPcap, "no-pcap", false, "do not generate PCAP file (named \"<id>_current.pcap\")")
	flag.StringVar(&args.PcapType, "pcap", pcap.FrameTypeWlanStr, "PCAP file type: 'wlan' (IEEE 802.11 frames) or 'radiotap'")
	flag.StringVar(&args.History, "history", "", "file to keep the CLI command history in")

	flag.Parse()
}

func Main(ctx *progctx.ProgCtx, cliOptions *cli.CliOptions) {
	parseArgs()
	if len(args.LogFile) > 0 {
		logger.SetOutput([]string{"stderr", args.LogFile})
	}
	logLevel, err := logger.ParseLevelString(args.LogLevel)
	logger.FatalIfError(err)
	logger.SetLevel(logLevel)

	// run console in the main goroutine
	ctx.Defer(func() {
		_ = os.Stdin.Close()
	})

	handleSignals(ctx)

	sim := createSimulation(ctx, logLevel)
	logger.SetStdoutCallback(cli.Cli)

	go sim.Run()
	<-sim.Started

	if args.AutoGo {
		go autoGo(ctx, sim)
	}

	if cliOptions == nil {
		cliOptions = cli.DefaultCliOptions()
	}
	if len(args.History) > 0 {
		cliOptions.HistoryFile = args.History
	}
	cli.Run(ctx, sim, cliOptions)

	logger.Debugf("waiting for DCFSIM to stop gracefully ...")
	ctx.Wait()
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	signal.Ignore(syscall.SIGALRM)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer logger.Debugf("handleSignals exit.")
		defer ctx.WaitDone("handleSignals")

		for {
			select {
			case sig := <-c:
				logger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func autoGo(ctx *progctx.ProgCtx, sim *simulation.Simulation) {
	for {
		select {
		case <-sim.Go(time.Second):
		case <-ctx.Done():
			return
		}
		if ctx.Err() != nil { // exit when context is Done.
			return
		}
	}
}

func createSimulation(ctx *progctx.ProgCtx, logLevel logger.Level) *simulation.Simulation {
	simcfg := simulation.DefaultConfig()
	simcfg.Id = args.Id
	simcfg.RandomSeed = args.Seed
	simcfg.OutputDir = args.OutputDir
	simcfg.DumpPackets = args.DumpPackets
	simcfg.LogLevel = logLevel

	simcfg.RadioModel = args.RadioModel

	simcfg.Profile = mac.Profile(args.Profile)
	if mac.DefaultConfig(simcfg.Profile) == nil {
		logger.Fatalf("unknown PHY profile: %s", args.Profile)
	}

	simcfg.PcapEnabled = !args.NoPcap
	simcfg.PcapFrameType = pcap.ParseFrameTypeStr(args.PcapType)
	if simcfg.PcapFrameType == pcap.FrameTypeUnknown {
		logger.Fatalf("unknown PCAP file type: %s", args.PcapType)
	}
	if simcfg.PcapFrameType == pcap.FrameTypeOff {
		simcfg.PcapEnabled = false
	}

	dispatcherCfg := dispatcher.DefaultConfig()
	watchLevel, err := logger.ParseLevelString(args.WatchLevel)
	logger.FatalIfError(err)
	dispatcherCfg.DefaultWatchLevel = args.WatchLevel
	dispatcherCfg.DefaultWatchOn = watchLevel != logger.OffLevel

	sim, err := simulation.NewSimulation(ctx, simcfg, dispatcherCfg)
	logger.FatalIfError(err)

	if len(args.ConfigFile) > 0 {
		cfgFile, err := simulation.LoadYamlConfig(args.ConfigFile)
		logger.FatalIfError(err)
		if err = sim.ImportConfig(cfgFile); err != nil {
			logger.Errorf("%v", err)
		}
	}
	return sim
}
