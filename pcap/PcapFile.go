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
	"os"

	"github.com/pkg/errors"
)

type FrameType int

const (
	FrameTypeOff FrameType = iota
	FrameTypeWlan
	FrameTypeRadiotap
	FrameTypeUnknown
)

const (
	FrameTypeOffStr      string = "off"
	FrameTypeWlanStr     string = "wlan"
	FrameTypeRadiotapStr string = "radiotap"
)

const (
	dltIeee80211        = 105
	pcapMagicNumber     = 0xA1B2C3D4
	pcapVersionMajor    = 2
	pcapVersionMinor    = 4
	pcapFileHeaderSize  = 24
	pcapFrameHeaderSize = 16
	pcapSnapLen         = 65535
)

// File represents a PCAP file
type File interface {
	AppendFrame(frame Frame) error
	Sync() error
	Close() error
}

// Frame represents a single radio frame that can be added to a PCAP file
type Frame struct {
	Timestamp uint64 // us
	Data      []byte // the 802.11 MPDU including FCS
	Bitrate   float64
}

type wlanFile struct {
	fd *os.File
}

// NewFile creates a new PCAP file with all frames using specified frameType
func NewFile(filename string, frameType FrameType) (File, error) {
	switch frameType {
	case FrameTypeWlan:
		return newWlanFile(filename)
	case FrameTypeRadiotap:
		return newRadiotapFile(filename)
	default:
		return nil, errors.Errorf("invalid PCAP frame type: %d", frameType)
	}
}

func ParseFrameTypeStr(tp string) FrameType {
	switch tp {
	case FrameTypeOffStr:
		return FrameTypeOff
	case FrameTypeWlanStr:
		return FrameTypeWlan
	case FrameTypeRadiotapStr:
		return FrameTypeRadiotap
	default:
		return FrameTypeUnknown
	}
}

func openFile(filename string, dlt uint32) (*os.File, error) {
	fd, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open pcap file %s", filename)
	}
	if err = writeHeader(fd, dlt); err != nil {
		_ = fd.Close()
		return nil, err
	}
	return fd, nil
}

func newWlanFile(filename string) (File, error) {
	fd, err := openFile(filename, dltIeee80211)
	if err != nil {
		return nil, err
	}
	return &wlanFile{fd: fd}, nil
}

func (pf *wlanFile) AppendFrame(frame Frame) error {
	header := frameHeader(frame.Timestamp, len(frame.Data))
	if _, err := pf.fd.Write(header[:]); err != nil {
		return err
	}
	_, err := pf.fd.Write(frame.Data)
	return err
}

func (pf *wlanFile) Sync() error {
	return pf.fd.Sync()
}

func (pf *wlanFile) Close() error {
	return pf.fd.Close()
}

func frameHeader(timestamp uint64, plen int) [pcapFrameHeaderSize]byte {
	var header [pcapFrameHeaderSize]byte
	sec := uint32(timestamp / 1000000)
	usec := uint32(timestamp % 1000000)
	binary.LittleEndian.PutUint32(header[:4], sec)
	binary.LittleEndian.PutUint32(header[4:8], usec)
	binary.LittleEndian.PutUint32(header[8:12], uint32(plen))
	binary.LittleEndian.PutUint32(header[12:16], uint32(plen))
	return header
}

func writeHeader(fd *os.File, dlt uint32) error {
	var header [pcapFileHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:4], pcapMagicNumber)
	binary.LittleEndian.PutUint16(header[4:6], pcapVersionMajor)
	binary.LittleEndian.PutUint16(header[6:8], pcapVersionMinor)
	binary.LittleEndian.PutUint32(header[8:12], 0)
	binary.LittleEndian.PutUint32(header[12:16], 0)
	binary.LittleEndian.PutUint32(header[16:20], pcapSnapLen)
	binary.LittleEndian.PutUint32(header[20:24], dlt)
	if _, err := fd.Write(header[:]); err != nil {
		return errors.Wrap(err, "write pcap header")
	}
	return fd.Sync()
}
