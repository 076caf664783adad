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

package pcap

import (
	"encoding/binary"
	"math"
	"os"
)

// Radiotap header specification is at https://www.radiotap.org
const (
	dltIeee80211Radiotap = 127
	radiotapHeaderSize   = 10

	radiotapPresentFlags = 1 << 1
	radiotapPresentRate  = 1 << 2

	radiotapFlagFcs = 0x10 // frame includes FCS
)

type radiotapFile struct {
	fd *os.File
}

func newRadiotapFile(filename string) (File, error) {
	fd, err := openFile(filename, dltIeee80211Radiotap)
	if err != nil {
		return nil, err
	}
	return &radiotapFile{fd: fd}, nil
}

func (pf *radiotapFile) AppendFrame(frame Frame) error {
	header := frameHeader(frame.Timestamp, radiotapHeaderSize+len(frame.Data))

	var rt [radiotapHeaderSize]byte
	rt[0] = 0 // version
	rt[1] = 0 // pad
	binary.LittleEndian.PutUint16(rt[2:4], radiotapHeaderSize)
	binary.LittleEndian.PutUint32(rt[4:8], radiotapPresentFlags|radiotapPresentRate)
	rt[8] = radiotapFlagFcs
	rt[9] = radiotapRate(frame.Bitrate)

	if _, err := pf.fd.Write(header[:]); err != nil {
		return err
	}
	if _, err := pf.fd.Write(rt[:]); err != nil {
		return err
	}
	_, err := pf.fd.Write(frame.Data)
	return err
}

// radiotapRate converts bit/s to the radiotap unit of 500 kbit/s.
func radiotapRate(bitrate float64) uint8 {
	r := math.Round(bitrate / 500e3)
	if r > 255 {
		return 255
	}
	return uint8(r)
}

func (pf *radiotapFile) Sync() error {
	return pf.fd.Sync()
}

func (pf *radiotapFile) Close() error {
	return pf.fd.Close()
}
