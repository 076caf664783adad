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
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

const (
	helpIndent       = "  "
	helpNameWidth    = 12
	defaultTermWidth = 80
)

//go:embed README.md
var cliReference string

type helpTopic struct {
	summary string
	body    []string
}

// Help holds the per-command help parsed from the CLI reference.
type Help struct {
	topics map[string]*helpTopic
}

func newHelp() Help {
	return Help{
		topics: parseReference(cliReference),
	}
}

// parseReference splits the reference into one topic per "### <command>" section. Code blocks
// are labelled as definition or example; the first prose sentence becomes the summary.
func parseReference(md string) map[string]*helpTopic {
	topics := map[string]*helpTopic{}
	var cur *helpTopic
	inBlock := false

	scanner := bufio.NewScanner(strings.NewReader(md))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "### "):
			cur = &helpTopic{}
			topics[strings.TrimSpace(line[4:])] = cur
			inBlock = false
		case cur == nil || line == "":
			continue
		case line == "```shell":
			cur.body = append(cur.body, "", "Definition:")
			inBlock = true
		case line == "```bash":
			cur.body = append(cur.body, "", "Example:")
			inBlock = true
		case line == "```":
			inBlock = false
		case inBlock:
			cur.body = append(cur.body, helpIndent+line)
		default:
			text := strings.ReplaceAll(line, "`", "")
			if cur.summary == "" {
				cur.summary = firstSentence(text)
			}
			cur.body = append(cur.body, text)
		}
	}
	return topics
}

func firstSentence(s string) string {
	if idx := strings.Index(s, ". "); idx > 0 {
		return s[:idx+1]
	}
	return s
}

func termWidth() uint {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > helpNameWidth*2 {
			return uint(width)
		}
	}
	return defaultTermWidth
}

func (help *Help) outputGeneralHelp() string {
	names := make([]string, 0, len(help.topics))
	for name := range help.topics {
		names = append(names, name)
	}
	sort.Strings(names)

	width := termWidth() - helpNameWidth - 1
	var sb strings.Builder
	for _, name := range names {
		lines := strings.Split(wordwrap.WrapString(help.topics[name].summary, width), "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintf(&sb, "%-*s %s\n", helpNameWidth, name, line)
			} else {
				fmt.Fprintf(&sb, "%-*s %s\n", helpNameWidth, "", line)
			}
		}
	}
	sb.WriteString("\n" + wordwrap.WrapString("For detailed help per command, use: 'help <command>'", termWidth()) + "\n")
	return sb.String()
}

func (help *Help) outputCommandHelp(name string) string {
	topic, ok := help.topics[name]
	if !ok {
		return name + "\n" + helpIndent + "(Non-existent command.)\n"
	}

	width := termWidth() - uint(len(helpIndent))
	var sb strings.Builder
	sb.WriteString(name + "\n")
	for _, line := range topic.body {
		if strings.HasPrefix(line, helpIndent) {
			// code lines are not wrapped
			sb.WriteString(helpIndent + line + "\n")
			continue
		}
		for _, wrapped := range strings.Split(wordwrap.WrapString(line, width), "\n") {
			sb.WriteString(strings.TrimRight(helpIndent+wrapped, " ") + "\n")
		}
	}
	return sb.String()
}
