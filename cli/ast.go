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
	"strconv"

	"github.com/alecthomas/participle"
)

// noinspection GoStructTag
type Command struct {
	Add        *AddCmd        `  @@` //nolint
	Broadcast  *BroadcastCmd  `| @@` //nolint
	Counters   *CountersCmd   `| @@` //nolint
	Del        *DelCmd        `| @@` //nolint
	Energy     *EnergyCmd     `| @@` //nolint
	Exit       *ExitCmd       `| @@` //nolint
	Go         *GoCmd         `| @@` //nolint
	Help       *HelpCmd       `| @@` //nolint
	Kpi        *KpiCmd        `| @@` //nolint
	Load       *LoadCmd       `| @@` //nolint
	LogLevel   *LogLevelCmd   `| @@` //nolint
	Move       *MoveCmd       `| @@` //nolint
	Node       *NodeCmd       `| @@` //nolint
	Nodes      *NodesCmd      `| @@` //nolint
	Radio      *RadioCmd      `| @@` //nolint
	RadioModel *RadioModelCmd `| @@` //nolint
	Save       *SaveCmd       `| @@` //nolint
	Send       *SendCmd       `| @@` //nolint
	Time       *TimeCmd       `| @@` //nolint
	Traffic    *TrafficCmd    `| @@` //nolint
	Unwatch    *UnwatchCmd    `| @@` //nolint
	Watch      *WatchCmd      `| @@` //nolint
}

// noinspection GoStructTag
type GoCmd struct {
	Cmd  struct{}  `"go"`                                     //nolint
	Time string    `( @((Int|Float)["h"|"us"|"m"|"ms"|"s"]) ` //nolint
	Ever *EverFlag `| @@ )`                                   //nolint
}

// noinspection GoStructTag
type NodeSelector struct {
	Id int `@Int` //nolint
}

func (ns *NodeSelector) String() string {
	return strconv.Itoa(ns.Id)
}

// noinspection GoStructTag
type DataSizeFlag struct {
	Val int `("datasize"|"ds") @Int` //nolint
}

// noinspection GoStructTag
type IntervalFlag struct {
	Val int `("interval"|"itv") @Int` //nolint
}

// noinspection GoStructTag
type CountFlag struct {
	Val int `("count" | "c") @Int` //nolint
}

// noinspection GoStructTag
type StartFlag struct {
	Val int `"start" @Int` //nolint
}

// noinspection GoStructTag
type PoissonFlag struct {
	Dummy struct{} `"poisson"` //nolint
}

// noinspection GoStructTag
type SendCmd struct {
	Cmd      struct{}      `"send"`  //nolint
	Src      NodeSelector  `@@`      //nolint
	Dst      NodeSelector  `@@`      //nolint
	DataSize *DataSizeFlag `( @@`    //nolint
	Count    *CountFlag    `| @@`    //nolint
	Interval *IntervalFlag `| @@`    //nolint
	Start    *StartFlag    `| @@`    //nolint
	Poisson  *PoissonFlag  `| @@ )*` //nolint
}

// noinspection GoStructTag
type BroadcastCmd struct {
	Cmd      struct{}      `"broadcast"` //nolint
	Src      NodeSelector  `@@`          //nolint
	DataSize *DataSizeFlag `( @@`        //nolint
	Count    *CountFlag    `| @@`        //nolint
	Interval *IntervalFlag `| @@`        //nolint
	Start    *StartFlag    `| @@`        //nolint
	Poisson  *PoissonFlag  `| @@ )*`     //nolint
}

// noinspection GoStructTag
type TrafficCmd struct {
	Cmd  struct{}  `"traffic"` //nolint
	Stop *StopFlag `[ @@`      //nolint
	Id   int       `  @Int ]`  //nolint
}

// noinspection GoStructTag
type NodeCmd struct {
	Cmd  struct{}     `"node"` //nolint
	Node NodeSelector `@@`     //nolint
}

// noinspection GoStructTag
type NodesCmd struct {
	Cmd struct{} `"nodes"` //nolint
}

// noinspection GoStructTag
type CountersCmd struct {
	Cmd struct{} `"counters"` //nolint
}

// noinspection GoStructTag
type AddCmd struct {
	Cmd        struct{}        `"add"`                //nolint
	X          *int            `( "x" (@Int|@Float) ` //nolint
	Y          *int            `| "y" (@Int|@Float) ` //nolint
	Id         *AddNodeId      `| @@`                 //nolint
	RadioRange *RadioRangeFlag `| @@ )*`              //nolint
}

// noinspection GoStructTag
type AddNodeId struct {
	Val int `"id" @Int` //nolint
}

// noinspection GoStructTag
type RadioRangeFlag struct {
	Val int `"rr" @Int` //nolint
}

// noinspection GoStructTag
type DelCmd struct {
	Cmd   struct{}       `"del"`   //nolint
	Nodes []NodeSelector `( @@ )+` //nolint
}

// noinspection GoStructTag
type EverFlag struct {
	Dummy struct{} `"ever"` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

// noinspection GoStructTag
type EnergyCmd struct {
	Cmd  struct{}  `"energy"` //nolint
	Save *SaveFlag `( @@ )?`  //nolint
	Name string    `@String?` //nolint
}

// noinspection GoStructTag
type KpiCmd struct {
	Cmd   struct{}   `"kpi"`     //nolint
	Start *StartWord `[ ( @@`    //nolint
	Stop  *StopFlag  `  | @@`    //nolint
	Save  *SaveFlag  `  | @@ ) ]` //nolint
	Name  string     `@String?`  //nolint
}

// noinspection GoStructTag
type StartWord struct {
	Dummy struct{} `"start"` //nolint
}

// noinspection GoStructTag
type StopFlag struct {
	Dummy struct{} `"stop"` //nolint
}

// noinspection GoStructTag
type SaveFlag struct {
	Dummy struct{} `"save"` //nolint
}

// noinspection GoStructTag
type LoadCmd struct {
	Cmd      struct{} `"load"`  //nolint
	Filename string   `@String` //nolint
}

// noinspection GoStructTag
type SaveCmd struct {
	Cmd      struct{} `"save"`  //nolint
	Filename string   `@String` //nolint
}

// noinspection GoStructTag
type RadioCmd struct {
	Cmd      struct{}        `"radio"` //nolint
	Nodes    []NodeSelector  `( @@ )+` //nolint
	On       *OnFlag         `( @@`    //nolint
	Off      *OffFlag        `| @@`    //nolint
	FailTime *FailTimeParams `| @@ )`  //nolint
}

// noinspection GoStructTag
type OnFlag struct {
	Dummy struct{} `"on"` //nolint
}

// noinspection GoStructTag
type OffFlag struct {
	Dummy struct{} `"off"` //nolint
}

// noinspection GoStructTag
type FailTimeParams struct {
	Dummy        struct{} `"ft"`          //nolint
	FailDuration float64  `(@Int|@Float)` //nolint
	FailInterval float64  `(@Int|@Float)` //nolint
}

// noinspection GoStructTag
type MoveCmd struct {
	Cmd    struct{}     `"move"` //nolint
	Target NodeSelector `@@`     //nolint
	X      int          `@Int`   //nolint
	Y      int          `@Int`   //nolint
}

// noinspection GoStructTag
type RadioModelCmd struct {
	Cmd struct{} `"radiomodel"` //nolint
}

// noinspection GoStructTag
type TimeCmd struct {
	Cmd struct{} `"time"` //nolint
}

// noinspection GoStructTag
type LogLevelCmd struct {
	Cmd   struct{} `("log"|"loglevel")`                                                                //nolint
	Level string   `[@( "trace"|"debug"|"info"|"note"|"warn"|"error"|"off"|"T"|"D"|"I"|"N"|"W"|"E" )]` //nolint
}

// noinspection GoStructTag
type WatchCmd struct {
	Cmd     struct{}       `"watch"`                                                                                  //nolint
	Default string         `[ @("default"|"def") ]`                                                                   //nolint
	All     string         `[ @"all" ]`                                                                               //nolint
	Nodes   []NodeSelector `[ ( @@ )+ ]`                                                                              //nolint
	Level   string         `[@( "trace"|"debug"|"info"|"note"|"warn"|"error"|"off"|"none"|"T"|"D"|"I"|"N"|"W"|"E" )]` //nolint
}

// noinspection GoStructTag
type UnwatchCmd struct {
	Cmd   struct{}       `"unwatch"`    //nolint
	All   *AllFlag       `( @@`         //nolint
	Nodes []NodeSelector `| ( @@ )+ )?` //nolint
}

// noinspection GoStructTag
type AllFlag struct {
	Dummy struct{} `"all"` //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

var (
	commandParser = participle.MustBuild(&Command{})
)

func parseBytes(b []byte, cmd *Command) error {
	return commandParser.ParseBytes(b, cmd)
}
