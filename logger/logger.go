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

// Package logger is the leveled logger of the simulator. Log lines go through zap; contract
// assertions log at panic level and then panic.
package logger

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the log level of the simulation as a whole, or of a watched node.
type Level int8

const (
	TraceLevel   Level = 6
	DebugLevel   Level = 5
	InfoLevel    Level = 4
	NoteLevel    Level = 3
	WarnLevel    Level = 2
	ErrorLevel   Level = 1
	PanicLevel   Level = 0
	FatalLevel   Level = -1
	OffLevel     Level = -2
	DefaultLevel       = InfoLevel
)

// StdoutCallback is notified after a log line was written to a terminal, e.g. to redraw the CLI prompt.
type StdoutCallback interface {
	OnStdout()
}

const clearLine = "\033[2K\r"

var (
	mu         sync.Mutex
	outputs    = []string{"stderr"}
	zaplogger  *zap.Logger
	level      = DefaultLevel
	onTerminal bool
	cbStdout   StdoutCallback
)

func init() {
	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		onTerminal = true
	}
	if err := build(); err != nil {
		panic(err)
	}
}

func zapConfig() zap.Config {
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding:         "console",
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:     "time",
			LevelKey:    "level",
			MessageKey:  "message",
			EncodeTime:  zapcore.ISO8601TimeEncoder,
			EncodeLevel: zapcore.LowercaseLevelEncoder,
		},
	}
}

func build() error {
	l, err := zapConfig().Build()
	if err != nil {
		return err
	}
	if zaplogger != nil {
		_ = zaplogger.Sync()
	}
	zaplogger = l
	return nil
}

func (lv Level) zapLevel() zapcore.Level {
	switch {
	case lv >= DebugLevel:
		return zapcore.DebugLevel
	case lv >= NoteLevel:
		return zapcore.InfoLevel
	case lv == WarnLevel:
		return zapcore.WarnLevel
	case lv == ErrorLevel:
		return zapcore.ErrorLevel
	case lv == PanicLevel:
		return zapcore.DPanicLevel
	default:
		return zapcore.ErrorLevel
	}
}

func SetLevel(lv Level) {
	mu.Lock()
	level = lv
	mu.Unlock()
}

func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

func enabled(lv Level) bool {
	return lv <= GetLevel()
}

func SetStdoutCallback(cb StdoutCallback) {
	mu.Lock()
	cbStdout = cb
	mu.Unlock()
}

// SetOutput replaces the log destinations, e.g. []string{"stderr", "dcfsim.log"}.
func SetOutput(paths []string) {
	mu.Lock()
	defer mu.Unlock()
	outputs = paths
	if err := build(); err != nil {
		panic(err)
	}
}

// TraceError logs the error together with the current stack.
func TraceError(format string, args ...interface{}) {
	write(ErrorLevel, string(debug.Stack()))
	write(ErrorLevel, message(format, args))
}

func message(format string, args []interface{}) string {
	switch {
	case len(args) == 0:
		return format
	case format != "":
		return fmt.Sprintf(format, args...)
	default:
		return fmt.Sprint(args...)
	}
}

// write logs msg without checking the level. The CLI line is cleared first and redrawn after.
func write(lv Level, msg string) {
	mu.Lock()
	l, cb := zaplogger, cbStdout
	mu.Unlock()

	if onTerminal {
		_, _ = fmt.Fprint(os.Stdout, clearLine)
	}
	if ce := l.Check(lv.zapLevel(), msg); ce != nil {
		ce.Write()
	}
	if onTerminal && cb != nil {
		cb.OnStdout()
	}
}

func logf(lv Level, format string, args []interface{}) {
	if enabled(lv) {
		write(lv, message(format, args))
	}
}

func Tracef(format string, args ...interface{}) {
	logf(TraceLevel, format, args)
}

func Debugf(format string, args ...interface{}) {
	logf(DebugLevel, format, args)
}

func Infof(format string, args ...interface{}) {
	logf(InfoLevel, format, args)
}

func Notef(format string, args ...interface{}) {
	logf(NoteLevel, format, args)
}

func Warnf(format string, args ...interface{}) {
	logf(WarnLevel, format, args)
}

func Errorf(format string, args ...interface{}) {
	logf(ErrorLevel, format, args)
}

// Panicf logs regardless of the level and panics.
func Panicf(format string, args ...interface{}) {
	msg := message(format, args)
	write(PanicLevel, msg)
	panic(msg)
}

// Fatalf logs regardless of the level and exits the process.
func Fatalf(format string, args ...interface{}) {
	write(FatalLevel, message(format, args))
	_ = zaplogger.Sync()
	os.Exit(1)
}

func PanicIfError(err error, args ...interface{}) {
	if err == nil {
		return
	}
	if len(args) == 0 {
		Panicf("%v", err)
	}
	Panicf("", args...)
}

func FatalIfError(err error, args ...interface{}) {
	if err == nil {
		return
	}
	if len(args) == 0 {
		Fatalf("%v", err)
	}
	Fatalf("", args...)
}

// assertPanicker turns testify assertion failures into contract violations.
type assertPanicker struct{}

func (assertPanicker) Errorf(format string, args ...interface{}) {
	Panicf(format, args...)
}

func AssertEqual(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	return assert.Equal(assertPanicker{}, expected, actual, msgAndArgs...)
}

func AssertNil(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.Nil(assertPanicker{}, object, msgAndArgs...)
}

func AssertNotNil(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.NotNil(assertPanicker{}, object, msgAndArgs...)
}

func AssertTrue(value bool, msgAndArgs ...interface{}) bool {
	return assert.True(assertPanicker{}, value, msgAndArgs...)
}

func AssertFalse(value bool, msgAndArgs ...interface{}) bool {
	return assert.False(assertPanicker{}, value, msgAndArgs...)
}
