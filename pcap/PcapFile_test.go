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
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlansim/dcfsim/types"
)

func TestPcapFile(t *testing.T) {
	pcapFilename := filepath.Join(t.TempDir(), "test.pcap")
	pcap, err := NewFile(pcapFilename, FrameTypeWlan)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		_ = pcap.Close()
	}()

	err = pcap.Sync()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, pcapFileHeaderSize, getFileSize(t, pcapFilename))

	for i := 0; i < 10; i++ {
		frame := Frame{
			Timestamp: uint64(i) * 1000,
			Data:      []byte{0xd4, 0x00, 0x00, 0x00, 0x65},
			Bitrate:   1e6,
		}
		err = pcap.AppendFrame(frame)
		if err != nil {
			t.Fatal(err)
		}

		err = pcap.Sync()
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, pcapFileHeaderSize+(pcapFrameHeaderSize+5)*(i+1), getFileSize(t, pcapFilename))
	}

	data, err := os.ReadFile(pcapFilename)
	require.NoError(t, err)
	assert.Equal(t, uint32(dltIeee80211), binary.LittleEndian.Uint32(data[20:24]))
}

func TestPcapRadiotapFile(t *testing.T) {
	pcapFilename := filepath.Join(t.TempDir(), "test_radiotap.pcap")
	pcap, err := NewFile(pcapFilename, FrameTypeRadiotap)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		_ = pcap.Close()
	}()

	assert.Equal(t, pcapFileHeaderSize, getFileSize(t, pcapFilename))

	for i := 0; i < 10; i++ {
		frame := Frame{
			Timestamp: uint64(i) * 1000,
			Data:      []byte{0xd4, 0x00, 0x00, 0x00, 0x94},
			Bitrate:   5.5e6,
		}
		err = pcap.AppendFrame(frame)
		if err != nil {
			t.Fatal(err)
		}

		err = pcap.Sync()
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, pcapFileHeaderSize+(pcapFrameHeaderSize+radiotapHeaderSize+5)*(i+1), getFileSize(t, pcapFilename))
	}

	data, err := os.ReadFile(pcapFilename)
	require.NoError(t, err)
	assert.Equal(t, uint32(dltIeee80211Radiotap), binary.LittleEndian.Uint32(data[20:24]))
	rate := data[pcapFileHeaderSize+pcapFrameHeaderSize+9]
	assert.Equal(t, uint8(11), rate)
}

func TestNewFileInvalidType(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "x.pcap"), FrameTypeUnknown)
	assert.Error(t, err)
	assert.Equal(t, FrameTypeWlan, ParseFrameTypeStr("wlan"))
	assert.Equal(t, FrameTypeUnknown, ParseFrameTypeStr("wpan"))
}

func TestEncodeDot11Lengths(t *testing.T) {
	assert.Len(t, EncodeDot11(&types.Frame{Type: types.FrameRTS, Src: 1, Dst: 2}), types.RtsBits/8)
	assert.Len(t, EncodeDot11(&types.Frame{Type: types.FrameCTS, Dst: 2}), types.CtsBits/8)
	assert.Len(t, EncodeDot11(&types.Frame{Type: types.FrameAck, Dst: 2}), types.AckBits/8)
	data := &types.Frame{Type: types.FrameData, Src: 1, Dst: 2, Payload: make([]byte, 100)}
	assert.Len(t, EncodeDot11(data), data.BitLength()/8)
}

func TestEncodeDot11Fields(t *testing.T) {
	f := &types.Frame{
		Type:     types.FrameData,
		Src:      0x010203,
		Dst:      types.BroadcastAddr,
		SeqCtrl:  0x1234,
		Retry:    true,
		Duration: 313*time.Microsecond + 500*time.Nanosecond,
		Payload:  []byte{0xaa, 0xbb},
	}
	b := EncodeDot11(f)

	assert.Equal(t, byte(fcData), b[0])
	assert.Equal(t, byte(fcFlagToDs|fcFlagFromDs|fcFlagRetry), b[1])
	assert.Equal(t, uint16(314), binary.LittleEndian.Uint16(b[2:4]))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b[4:10])
	assert.Equal(t, []byte{0x02, 0, 0, 0x01, 0x02, 0x03}, b[10:16])
	assert.Equal(t, uint16(0x2340), binary.LittleEndian.Uint16(b[22:24]))
	assert.Equal(t, []byte{0xaa, 0xbb}, b[30:32])

	fcs := binary.LittleEndian.Uint32(b[len(b)-4:])
	assert.Equal(t, crc32.ChecksumIEEE(b[:len(b)-4]), fcs)
}

func TestEncodeDot11DurationCapped(t *testing.T) {
	b := EncodeDot11(&types.Frame{Type: types.FrameCTS, Dst: 2, Duration: time.Second})
	assert.Equal(t, uint16(maxDurationUs), binary.LittleEndian.Uint16(b[2:4]))
}

func TestAppendEncodedFrame(t *testing.T) {
	pcapFilename := filepath.Join(t.TempDir(), "dot11.pcap")
	pf, err := NewFile(pcapFilename, FrameTypeWlan)
	require.NoError(t, err)

	macFrame := &types.Frame{Type: types.FrameAck, Dst: 7}
	require.NoError(t, pf.AppendFrame(Frame{Timestamp: 10, Data: EncodeDot11(macFrame), Bitrate: 1e6}))
	require.NoError(t, pf.Close())

	data, err := os.ReadFile(pcapFilename)
	require.NoError(t, err)
	require.Len(t, data, pcapFileHeaderSize+pcapFrameHeaderSize+types.AckBits/8)
	assert.Equal(t, byte(fcAck), data[pcapFileHeaderSize+pcapFrameHeaderSize])
}

func getFileSize(t *testing.T, fp string) int {
	info, err := os.Stat(fp)
	if err != nil {
		t.Fatal(err)
	}

	return int(info.Size())
}
