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

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevelString(t *testing.T) {
	lv, err := ParseLevelString("debug")
	assert.Nil(t, err)
	assert.Equal(t, DebugLevel, lv)

	lv, err = ParseLevelString("none")
	assert.Nil(t, err)
	assert.Equal(t, OffLevel, lv)

	_, err = ParseLevelString("loud")
	assert.NotNil(t, err)
	assert.Equal(t, "warn", WarnLevel.String())
}

func TestPanicfAlwaysPanics(t *testing.T) {
	old := GetLevel()
	defer SetLevel(old)

	SetLevel(OffLevel)
	assert.Panics(t, func() {
		Panicf("contract violated: %d", 42)
	})
}

func TestAssertHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		AssertTrue(true)
		AssertFalse(false)
		AssertEqual(1, 1)
		AssertNil(nil)
	})
	assert.Panics(t, func() {
		AssertTrue(false)
	})
	assert.Panics(t, func() {
		AssertEqual(1, 2)
	})
}

func TestNodeLevel(t *testing.T) {
	assert.Equal(t, OffLevel, GetNodeLevel(77))
	SetNodeLevel(77, DebugLevel)
	assert.Equal(t, DebugLevel, GetNodeLevel(77))
	assert.NotPanics(t, func() {
		NodeLogf(77, 1000, DebugLevel, "hello %s", "node")
	})
}

func TestParseLevelAliases(t *testing.T) {
	for s, exp := range map[string]Level{"T": TraceLevel, "warning": WarnLevel, "crit": ErrorLevel, "INFO": InfoLevel,
		"off": OffLevel, "def": DefaultLevel} {
		lv, err := ParseLevelString(s)
		assert.Nil(t, err, s)
		assert.Equal(t, exp, lv, s)
	}

	_, err := ParseLevelString("panic")
	assert.NotNil(t, err)
	assert.Equal(t, "level(9)", Level(9).String())
}
