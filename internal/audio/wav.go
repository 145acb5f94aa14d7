package audio

import (
	"encoding/binary"
	"fmt"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	ioutils "github.com/handiism/capture-studio/internal/io"
	"github.com/handiism/capture-studio/internal/media"
)

// MIMEType is the content type of EncodeWAV output.
const MIMEType = "audio/wav"

// pcmFormat is the WAVE audio format tag for integer PCM.
const pcmFormat = 1

// Metadata describes a recording.
type Metadata struct {
	Title        string
	CreationDate time.Time
	Software     string
	Comments     string
}

// EncodeWAV encodes little-endian 16-bit PCM chunks as a WAV file.
//
// A trailing odd byte in a chunk is ignored. Chunks are concatenated in
// order; sample boundaries may span chunks.
func EncodeWAV(chunks [][]byte, format media.Format, meta *Metadata) ([]byte, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("audio: invalid format %+v", format)
	}
	bitDepth := format.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	if bitDepth != 16 {
		return nil, fmt.Errorf("audio: unsupported bit depth %d", bitDepth)
	}

	var f ioutils.MemFile
	enc := wav.NewEncoder(&f, format.SampleRate, bitDepth, format.Channels, pcmFormat)
	if meta != nil {
		enc.Metadata = meta.toWAV()
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           decodePCM(chunks),
		SourceBitDepth: bitDepth,
	}
	// Written even when empty so the header and data chunk exist.
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return nil, fmt.Errorf("audio: write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("audio: finalize wav: %w", err)
	}

	return f.Bytes(), nil
}

// decodePCM joins chunks and widens 16-bit samples to int.
func decodePCM(chunks [][]byte) []int {
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	joined := make([]byte, 0, total)
	for _, c := range chunks {
		joined = append(joined, c...)
	}

	samples := make([]int, len(joined)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(joined[2*i:])))
	}
	return samples
}

func (m *Metadata) toWAV() *wav.Metadata {
	md := &wav.Metadata{
		Title:    m.Title,
		Software: m.Software,
		Comments: m.Comments,
	}
	if !m.CreationDate.IsZero() {
		md.CreationDate = m.CreationDate.Format("2006-01-02")
	}
	return md
}
