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
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"

	"github.com/wlansim/dcfsim/logger"
)

// CliHandler executes one command line.
type CliHandler interface {
	HandleCommand(cmd string, output io.Writer) error
	GetPrompt() string
}

type CliOptions struct {
	EchoInput   bool
	HistoryFile string
	Stdin       *os.File
	Stdout      *os.File
}

func DefaultCliOptions() *CliOptions {
	return &CliOptions{}
}

func (o *CliOptions) withDefaults() *CliOptions {
	opts := DefaultCliOptions()
	if o != nil {
		*opts = *o
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return opts
}

// CliInstance is the console that reads command lines and hands them to a CliHandler.
type CliInstance struct {
	Started chan struct{}
	Options *CliOptions

	rl     *readline.Instance
	closed chan struct{}
}

var Cli = newCliInstance()

func newCliInstance() *CliInstance {
	return &CliInstance{
		Started: make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

// Stop makes a running Run return and waits for it. It may be called after Run has returned.
func (cli *CliInstance) Stop() {
	<-cli.Started
	// readline.Instance.Close can block when called from another goroutine, so Run closes it.
	// ETX unblocks the pending Runes() read inside readline.
	_, _ = cli.Options.Stdin.WriteString("\003\n")
	_ = cli.Options.Stdin.Close()
	logger.Tracef("waiting for CLI to stop")
	<-cli.closed
}

// Run reads command lines until EOF, Ctrl-C on an empty line, Stop, or a handler error.
func (cli *CliInstance) Run(handler CliHandler, options *CliOptions) error {
	defer logger.Debugf("CLI exit")
	defer close(cli.closed)

	cli.Options = options.withDefaults()
	started := false
	defer func() {
		if !started {
			close(cli.Started)
		}
	}()

	for _, f := range []*os.File{cli.Options.Stdin, cli.Options.Stdout} {
		restore, err := keepTermState(f)
		if err != nil {
			return err
		}
		defer restore()
	}

	rl, err := readline.NewEx(cli.readlineConfig(handler))
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	cli.rl = rl
	started = true
	close(cli.Started)

	return cli.readLoop(handler)
}

func (cli *CliInstance) readLoop(handler CliHandler) error {
	stdout := cli.Options.Stdout
	for {
		cli.rl.SetPrompt(handler.GetPrompt())
		line, err := cli.rl.Readline()
		switch {
		case len(line) > 0 && line[0] == readline.CharInterrupt:
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			// Ctrl-C while editing only discards the line
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		if cli.Options.EchoInput {
			if _, err = stdout.WriteString(line + "\n"); err != nil {
				return err
			}
		}

		cmd := strings.TrimSpace(line)
		if cmd == "" || strings.HasPrefix(cmd, "#") {
			continue
		}
		err = handler.HandleCommand(cmd, cli.rl.Stdout())
		_ = stdout.Sync()
		if err != nil {
			return err
		}
	}
}

func (cli *CliInstance) readlineConfig(handler CliHandler) *readline.Config {
	return &readline.Config{
		Prompt:            handler.GetPrompt(),
		HistoryFile:       cli.Options.HistoryFile,
		HistorySearchFold: true,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		Stdin:             cli.Options.Stdin,
		Stdout:            cli.Options.Stdout,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			// no job control from the console
			return r, r != readline.CharCtrlZ
		},
	}
}

// keepTermState returns a func that restores the terminal state of f, if f is a terminal.
func keepTermState(f *os.File) (func(), error) {
	fd := int(f.Fd())
	if !readline.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := readline.GetState(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "get terminal state of %s", f.Name())
	}
	return func() {
		_ = readline.Restore(fd, state)
	}, nil
}

// OnStdout redraws the prompt after log output was written to the console.
func (cli *CliInstance) OnStdout() {
	if cli.rl != nil {
		cli.rl.Refresh()
	}
}
