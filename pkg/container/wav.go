// wav.go - Pure Go WAV (RIFF) reader/writer for 16-bit PCM.
// Manually parses and constructs RIFF chunk headers; decoding accepts
// 8-bit, 16-bit, and 32-bit-float sources and downmixes to mono int16.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// EncodeWAV writes samples as a mono 16-bit PCM WAV file.
func EncodeWAV(w io.Writer, samples []int16, sampleRate int) error {
	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * 2)

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(header[34:36], 16) // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write WAV header: %w", err)
	}

	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write WAV data: %w", err)
	}
	return nil
}

// WAVBytes is EncodeWAV into memory.
func WAVBytes(samples []int16, sampleRate int) []byte {
	var buf bytes.Buffer
	buf.Grow(44 + len(samples)*2)
	_ = EncodeWAV(&buf, samples, sampleRate)
	return buf.Bytes()
}

type wavFormat struct {
	audioFormat   uint16
	channels      int
	sampleRate    int
	byteRate      int
	bitsPerSample int
}

// DecodeWAV parses a WAV blob and returns mono int16 samples. Multi-channel
// input is downmixed by averaging. A payload shorter than the declared data
// size is rejected so callers can fall back to the header-only probe.
func DecodeWAV(data []byte) ([]int16, int, error) {
	format, payload, declaredSize, err := parseWAV(data)
	if err != nil {
		return nil, 0, err
	}
	if len(payload) < declaredSize {
		return nil, 0, fmt.Errorf("WAV data truncated: %d of %d declared bytes", len(payload), declaredSize)
	}

	bytesPerSample := format.bitsPerSample / 8
	frameSize := bytesPerSample * format.channels
	if frameSize == 0 {
		return nil, 0, fmt.Errorf("WAV has zero frame size")
	}
	frames := len(payload) / frameSize

	samples := make([]int16, frames)
	for f := 0; f < frames; f++ {
		sum := 0
		for c := 0; c < format.channels; c++ {
			off := f*frameSize + c*bytesPerSample
			sum += decodeSample(format, payload[off:off+bytesPerSample])
		}
		samples[f] = int16(sum / format.channels)
	}
	return samples, format.sampleRate, nil
}

// ProbeWAVDuration reads the declared duration from a WAV header without
// decoding samples. It works even when the sample payload is truncated or
// unreadable, since it trusts the declared data-chunk size.
func ProbeWAVDuration(data []byte) (float64, error) {
	format, _, declaredSize, err := parseWAV(data)
	if err != nil {
		return 0, err
	}
	if format.byteRate <= 0 {
		return 0, fmt.Errorf("WAV header has zero byte rate")
	}
	return float64(declaredSize) / float64(format.byteRate), nil
}

func decodeSample(format wavFormat, b []byte) int {
	switch {
	case format.audioFormat == 3 && format.bitsPerSample == 32:
		f := math.Float32frombits(binary.LittleEndian.Uint32(b))
		if f > 1 {
			f = 1
		} else if f < -1 {
			f = -1
		}
		return int(f * 32767)
	case format.bitsPerSample == 16:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case format.bitsPerSample == 8:
		// 8-bit WAV is unsigned.
		return (int(b[0]) - 128) << 8
	default:
		return 0
	}
}

// parseWAV walks the RIFF chunk list and returns the format, the available
// data payload, and the declared data size (which may exceed the payload on
// truncated files).
func parseWAV(data []byte) (wavFormat, []byte, int, error) {
	var format wavFormat

	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return format, nil, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var payload []byte
	declaredSize := 0
	haveFmt, haveData := false, false

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := data[pos+8:]
		if size < len(body) {
			body = body[:size]
		}

		switch id {
		case "fmt ":
			if len(body) < 16 {
				return format, nil, 0, fmt.Errorf("short fmt chunk")
			}
			format.audioFormat = binary.LittleEndian.Uint16(body[0:2])
			format.channels = int(binary.LittleEndian.Uint16(body[2:4]))
			format.sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			format.byteRate = int(binary.LittleEndian.Uint32(body[8:12]))
			format.bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFmt = true
		case "data":
			payload = body
			declaredSize = size
			haveData = true
		}

		// Chunks are word-aligned.
		pos += 8 + size + size%2
	}

	if !haveFmt {
		return format, nil, 0, fmt.Errorf("WAV missing fmt chunk")
	}
	if !haveData {
		return format, nil, 0, fmt.Errorf("WAV missing data chunk")
	}
	if format.channels <= 0 || format.sampleRate <= 0 {
		return format, nil, 0, fmt.Errorf("WAV has invalid format (channels=%d rate=%d)", format.channels, format.sampleRate)
	}
	if format.audioFormat != 1 && format.audioFormat != 3 {
		return format, nil, 0, fmt.Errorf("unsupported WAV format tag %d", format.audioFormat)
	}

	return format, payload, declaredSize, nil
}
