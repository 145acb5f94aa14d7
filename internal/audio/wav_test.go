package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/handiism/capture-studio/internal/media"
)

var mono8k = media.Format{SampleRate: 8000, Channels: 1, BitDepth: 16}

func pcm(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func TestEncodeWAV_RoundTrip(t *testing.T) {
	chunks := [][]byte{pcm(1, 2, 3), pcm(-1, -32768, 32767)}

	data, err := EncodeWAV(chunks, mono8k, &Metadata{Title: "recording", CreationDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}

	if !wav.NewDecoder(bytes.NewReader(data)).IsValidFile() {
		t.Fatal("output is not a valid WAV file")
	}
	buf, err := wav.NewDecoder(bytes.NewReader(data)).FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}

	want := []int{1, 2, 3, -1, -32768, 32767}
	if len(buf.Data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(want))
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], want[i])
		}
	}
	if buf.Format.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", buf.Format.SampleRate)
	}
}

func TestEncodeWAV_ZeroChunks(t *testing.T) {
	data, err := EncodeWAV(nil, mono8k, nil)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	if len(data) < 44 {
		t.Fatalf("got %d bytes, want at least a 44-byte header", len(data))
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Errorf("header = %q, want RIFF....WAVE", data[:12])
	}
}

func TestEncodeWAV_SampleSpansChunks(t *testing.T) {
	whole := pcm(-2)
	data, err := EncodeWAV([][]byte{whole[:1], whole[1:]}, mono8k, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := wav.NewDecoder(bytes.NewReader(data)).FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Data) != 1 || buf.Data[0] != -2 {
		t.Errorf("decoded %v, want [-2]", buf.Data)
	}
}

func TestEncodeWAV_InvalidFormat(t *testing.T) {
	tests := []media.Format{
		{SampleRate: 0, Channels: 1, BitDepth: 16},
		{SampleRate: 8000, Channels: 0, BitDepth: 16},
		{SampleRate: 8000, Channels: 1, BitDepth: 24},
	}
	for _, f := range tests {
		if _, err := EncodeWAV(nil, f, nil); err == nil {
			t.Errorf("EncodeWAV(%+v) should fail", f)
		}
	}
}
