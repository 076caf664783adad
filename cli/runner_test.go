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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlansim/dcfsim/logger"
	"github.com/wlansim/dcfsim/prng"
	"github.com/wlansim/dcfsim/progctx"
	"github.com/wlansim/dcfsim/simulation"
)

func newTestRunner(t *testing.T) (*CmdRunner, *progctx.ProgCtx, *simulation.Simulation) {
	prng.Init(1)
	cfg := simulation.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.PcapEnabled = false
	cfg.LogLevel = logger.WarnLevel

	ctx := progctx.New(context.Background())
	sim, err := simulation.NewSimulation(ctx, cfg, nil)
	require.NoError(t, err)
	go sim.Run()
	<-sim.Started
	t.Cleanup(func() {
		ctx.Cancel("test done")
		ctx.Wait()
	})
	return NewCmdRunner(ctx, sim), ctx, sim
}

func runCommand(t *testing.T, rt *CmdRunner, cmd string) string {
	var output bytes.Buffer
	assert.NoError(t, rt.RunCommand(cmd, &output))
	return output.String()
}

func TestRunCommands(t *testing.T) {
	rt, _, _ := newTestRunner(t)

	assert.Equal(t, "1\nDone\n", runCommand(t, rt, "add x 0 y 0"))
	assert.Equal(t, "2\nDone\n", runCommand(t, rt, "add x 50 y 0"))
	assert.Contains(t, runCommand(t, rt, "add id 2"), "Error: node 2 already exists")
	assert.Equal(t, "1\nDone\n", runCommand(t, rt, "send 1 2 ds 100 count 3 itv 10"))
	assert.Contains(t, runCommand(t, rt, "traffic"), "id=1\tsrc=1\tdst=2\tsize=100")

	assert.Equal(t, "Done\n", runCommand(t, rt, "go 1"))
	assert.Equal(t, "1000000\nDone\n", runCommand(t, rt, "time"))
	assert.Equal(t, "Done\n", runCommand(t, rt, "traffic"))

	node2 := runCommand(t, rt, "node 2")
	assert.Contains(t, node2, "id=2\tx=50\ty=0")
	assert.Regexp(t, `node\.delivered\s+3\n`, node2)
	assert.Regexp(t, `mac\.ack-sent\s+3\n`, node2)
	assert.Contains(t, runCommand(t, rt, "node 1"), "state=IDLE")

	nodes := runCommand(t, rt, "nodes")
	assert.Contains(t, nodes, "id=1\tx=0\ty=0")
	assert.Contains(t, nodes, "id=2\tx=50\ty=0")

	assert.Regexp(t, `TxStartEvents\s+6\n`, runCommand(t, rt, "counters"))
	assert.Contains(t, runCommand(t, rt, "radiomodel"), "Ideal\n")

	assert.Equal(t, "Warn: node 3 not found, skipping\nDone\n", runCommand(t, rt, "del 3"))
	assert.Contains(t, runCommand(t, rt, "send 1 1"), "Error:")
	assert.Contains(t, runCommand(t, rt, "radio 1 ft 2 1"), "Error: ft parameter")
	assert.Contains(t, runCommand(t, rt, "wrongcmd"), "Error:")
}

func TestRunBroadcastAndStop(t *testing.T) {
	rt, _, sim := newTestRunner(t)

	runCommand(t, rt, "add x 0 y 0")
	runCommand(t, rt, "add x 50 y 0")
	runCommand(t, rt, "add x 0 y 50")
	assert.Equal(t, "1\nDone\n", runCommand(t, rt, "broadcast 1 ds 20 count 0 itv 100"))
	runCommand(t, rt, "go 1")
	assert.Contains(t, runCommand(t, rt, "traffic"), "count=ever")
	assert.Equal(t, "Done\n", runCommand(t, rt, "traffic stop 1"))
	assert.Contains(t, runCommand(t, rt, "traffic stop 1"), "Error:")

	assert.Equal(t, "Done\n", runCommand(t, rt, "del 1"))
	assert.Equal(t, []int{2, 3}, sim.GetNodes())
}

func TestRunLogAndWatch(t *testing.T) {
	rt, _, sim := newTestRunner(t)

	assert.Equal(t, "warn\nDone\n", runCommand(t, rt, "log"))
	assert.Equal(t, "Done\n", runCommand(t, rt, "loglevel error"))
	assert.Equal(t, logger.ErrorLevel, sim.GetLogLevel())

	runCommand(t, rt, "add")
	runCommand(t, rt, "add")
	assert.Equal(t, "Done\n", runCommand(t, rt, "watch 1 2 info"))
	assert.Equal(t, "1 2\nDone\n", runCommand(t, rt, "watch"))
	assert.Equal(t, "Done\n", runCommand(t, rt, "unwatch 1"))
	assert.Equal(t, "2\nDone\n", runCommand(t, rt, "watch"))
	assert.Equal(t, "Done\n", runCommand(t, rt, "unwatch"))
	assert.Equal(t, "\nDone\n", runCommand(t, rt, "watch"))

	assert.Equal(t, "off\nDone\n", runCommand(t, rt, "watch default"))
	assert.Equal(t, "Done\n", runCommand(t, rt, "watch default debug"))
	assert.Equal(t, "debug\nDone\n", runCommand(t, rt, "watch default"))
}

func TestRunKpiAndEnergy(t *testing.T) {
	rt, _, sim := newTestRunner(t)
	outputDir := sim.GetConfig().OutputDir

	runCommand(t, rt, "add x 0 y 0")
	runCommand(t, rt, "add x 50 y 0")
	runCommand(t, rt, "send 1 2 count 2")
	runCommand(t, rt, "go 1")

	kpi := runCommand(t, rt, "kpi")
	assert.Contains(t, kpi, "\"status\": \"ok\"")
	assert.Equal(t, "Done\n", runCommand(t, rt, "kpi stop"))
	assert.False(t, sim.GetKpiManager().IsRunning())
	kpiFile := filepath.Join(outputDir, "mykpi.json")
	assert.Equal(t, "Done\n", runCommand(t, rt, "kpi save \""+kpiFile+"\""))
	_, err := os.Stat(kpiFile)
	assert.NoError(t, err)
	assert.Equal(t, "Done\n", runCommand(t, rt, "kpi start"))
	assert.True(t, sim.GetKpiManager().IsRunning())

	assert.Contains(t, runCommand(t, rt, "energy"), "id=2\t")
	assert.Equal(t, "Done\n", runCommand(t, rt, "energy save \"myenergy\""))
	_, err = os.Stat(filepath.Join(outputDir, "myenergy_nodes.txt"))
	assert.NoError(t, err)
}

func TestRunExit(t *testing.T) {
	rt, ctx, _ := newTestRunner(t)

	var output bytes.Buffer
	assert.Error(t, rt.RunCommand("exit", &output))
	assert.Equal(t, "Done\n", output.String())
	assert.Error(t, ctx.Err())

	output.Reset()
	assert.Error(t, rt.RunCommand("nodes", &output))
	assert.Equal(t, "", output.String())
}
