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
	"fmt"
	"sync"

	. "github.com/wlansim/dcfsim/types"
)

var (
	nodeLevels = make(map[NodeId]Level, 10)
	mutex      = sync.Mutex{}
)

// SetNodeLevel sets the display level of a single node. Messages of the node are shown if
// either the node level or the global level allows them.
func SetNodeLevel(nodeid NodeId, level Level) {
	mutex.Lock()
	defer mutex.Unlock()
	nodeLevels[nodeid] = level
}

// GetNodeLevel gets the display level of a node, OffLevel if never set.
func GetNodeLevel(nodeid NodeId) Level {
	mutex.Lock()
	defer mutex.Unlock()
	if lv, ok := nodeLevels[nodeid]; ok {
		return lv
	}
	return OffLevel
}

// NodeLogf logs a formatted message for the given node, prefixed with the node id and the simulation time.
func NodeLogf(nodeid NodeId, ts SimTime, level Level, format string, args ...interface{}) {
	if !enabled(level) && level > GetNodeLevel(nodeid) {
		return
	}
	msg := fmt.Sprintf("%12d Node<%d> ", ts.Us(), nodeid) + message(format, args)
	write(level, msg)
}
