// avi.go - Pure Go AVI muxer: Motion JPEG video plus 16-bit PCM audio.
// AVI has better native MJPEG support than MP4 and its RIFF structure can be
// written without any external dependencies. Frames and audio accumulate in
// memory and the container is laid out in a single pass on Finalize, once
// every chunk size is known.
package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
)

// AVIWriter collects JPEG-encoded frames and a PCM track, then writes a
// two-stream AVI ("00dc" video chunks interleaved with "01wb" audio chunks).
type AVIWriter struct {
	width      int
	height     int
	fps        int
	sampleRate int
	quality    int

	frames   [][]byte
	maxFrame int
	audio    []int16
}

// NewAVIWriter creates a muxer for the given canvas geometry. JPEG quality
// defaults to 90.
func NewAVIWriter(width, height, fps, sampleRate int) *AVIWriter {
	if fps <= 0 {
		fps = 30
	}
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	return &AVIWriter{
		width:      width,
		height:     height,
		fps:        fps,
		sampleRate: sampleRate,
		quality:    90,
	}
}

// AddFrame JPEG-encodes one canvas frame and appends it to the video stream.
func (w *AVIWriter) AddFrame(img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: w.quality}); err != nil {
		return fmt.Errorf("encode frame %d: %w", len(w.frames), err)
	}
	data := buf.Bytes()
	w.frames = append(w.frames, data)
	if len(data) > w.maxFrame {
		w.maxFrame = len(data)
	}
	return nil
}

// SetAudio installs the mixed mono PCM track for the whole recording.
func (w *AVIWriter) SetAudio(samples []int16) {
	w.audio = samples
}

// FrameCount returns the number of frames added so far.
func (w *AVIWriter) FrameCount() int {
	return len(w.frames)
}

// audioSliceBounds returns the [start, end) sample range interleaved after
// frame i. Integer division keeps the boundaries monotonic and the final
// slice exact regardless of sampleRate/fps remainders.
func (w *AVIWriter) audioSliceBounds(i int) (int, int) {
	n := len(w.frames)
	start := i * len(w.audio) / n
	end := (i + 1) * len(w.audio) / n
	return start, end
}

// Finalize lays out and writes the complete AVI file.
func (w *AVIWriter) Finalize(out io.Writer) error {
	if len(w.frames) == 0 {
		return fmt.Errorf("no frames to write")
	}

	bw := bufio.NewWriter(out)

	writeFourCC := func(s string) { bw.WriteString(s) }
	writeUint32 := func(v uint32) { binary.Write(bw, binary.LittleEndian, v) }
	writeUint16 := func(v uint16) { binary.Write(bw, binary.LittleEndian, v) }

	totalFrames := uint32(len(w.frames))
	fps := uint32(w.fps)
	microSecPerFrame := uint32(1000000 / fps)

	// Per-chunk padded sizes (RIFF chunks are word-aligned).
	pad := func(n int) uint32 {
		return uint32(n + n%2)
	}

	// movi payload: "movi" + per frame (video chunk + audio chunk).
	moviSize := uint32(4)
	chunkCount := 0
	for i, f := range w.frames {
		moviSize += 8 + pad(len(f))
		chunkCount++
		if s, e := w.audioSliceBounds(i); e > s {
			moviSize += 8 + pad((e-s)*2)
			chunkCount++
		}
	}
	idx1Size := uint32(8 + chunkCount*16)

	hasAudio := len(w.audio) > 0
	streams := uint32(1)
	strlVideoSize := uint32(4 + 8 + 56 + 8 + 40)
	strlAudioSize := uint32(0)
	if hasAudio {
		streams = 2
		strlAudioSize = 4 + 8 + 56 + 8 + 16
	}
	hdrlSize := uint32(4+8+56) + 8 + strlVideoSize
	if hasAudio {
		hdrlSize += 8 + strlAudioSize
	}

	fileSize := 4 + (8 + hdrlSize) + (8 + moviSize) + idx1Size

	// === RIFF header ===
	writeFourCC("RIFF")
	writeUint32(fileSize)
	writeFourCC("AVI ")

	// === hdrl LIST ===
	writeFourCC("LIST")
	writeUint32(hdrlSize)
	writeFourCC("hdrl")

	// avih (main header)
	writeFourCC("avih")
	writeUint32(56)
	writeUint32(microSecPerFrame)
	writeUint32(uint32(w.maxFrame) * fps) // max bytes per sec
	writeUint32(0)                        // padding granularity
	writeUint32(0x10)                     // flags: AVIF_HASINDEX
	writeUint32(totalFrames)
	writeUint32(0) // initial frames
	writeUint32(streams)
	writeUint32(uint32(w.maxFrame)) // suggested buffer size
	writeUint32(uint32(w.width))
	writeUint32(uint32(w.height))
	writeUint32(0) // reserved
	writeUint32(0)
	writeUint32(0)
	writeUint32(0)

	// === video strl ===
	writeFourCC("LIST")
	writeUint32(strlVideoSize)
	writeFourCC("strl")

	writeFourCC("strh")
	writeUint32(56)
	writeFourCC("vids")
	writeFourCC("MJPG")
	writeUint32(0) // flags
	writeUint16(0) // priority
	writeUint16(0) // language
	writeUint32(0) // initial frames
	writeUint32(1) // scale
	writeUint32(fps)
	writeUint32(0) // start
	writeUint32(totalFrames)
	writeUint32(uint32(w.maxFrame))
	writeUint32(0) // quality
	writeUint32(0) // sample size
	writeUint16(0) // left
	writeUint16(0) // top
	writeUint16(uint16(w.width))
	writeUint16(uint16(w.height))

	// strf (BITMAPINFOHEADER)
	writeFourCC("strf")
	writeUint32(40)
	writeUint32(40)
	writeUint32(uint32(w.width))
	writeUint32(uint32(w.height))
	writeUint16(1)  // planes
	writeUint16(24) // bit count
	writeFourCC("MJPG")
	writeUint32(uint32(w.width * w.height * 3))
	writeUint32(0) // x pels per meter
	writeUint32(0) // y pels per meter
	writeUint32(0) // colors used
	writeUint32(0) // colors important

	// === audio strl ===
	if hasAudio {
		writeFourCC("LIST")
		writeUint32(strlAudioSize)
		writeFourCC("strl")

		writeFourCC("strh")
		writeUint32(56)
		writeFourCC("auds")
		writeUint32(0) // handler
		writeUint32(0) // flags
		writeUint16(0) // priority
		writeUint16(0) // language
		writeUint32(0) // initial frames
		writeUint32(1) // scale
		writeUint32(uint32(w.sampleRate))
		writeUint32(0) // start
		writeUint32(uint32(len(w.audio)))
		writeUint32(uint32(w.sampleRate * 2)) // suggested buffer size
		writeUint32(0)                        // quality
		writeUint32(2)                        // sample size (bytes per sample)
		writeUint16(0)
		writeUint16(0)
		writeUint16(0)
		writeUint16(0)

		// strf (PCMWAVEFORMAT)
		writeFourCC("strf")
		writeUint32(16)
		writeUint16(1) // PCM
		writeUint16(1) // mono
		writeUint32(uint32(w.sampleRate))
		writeUint32(uint32(w.sampleRate * 2)) // avg bytes per sec
		writeUint16(2)                        // block align
		writeUint16(16)                       // bits per sample
	}

	// === movi LIST ===
	writeFourCC("LIST")
	writeUint32(moviSize)
	writeFourCC("movi")

	type idxEntry struct {
		id     string
		offset uint32
		size   uint32
	}
	index := make([]idxEntry, 0, chunkCount)
	moviOffset := uint32(4)

	sampleBuf := make([]byte, 0, w.sampleRate/w.fps*2+2)
	for i, f := range w.frames {
		index = append(index, idxEntry{"00dc", moviOffset, uint32(len(f))})
		writeFourCC("00dc")
		writeUint32(uint32(len(f)))
		bw.Write(f)
		if len(f)%2 != 0 {
			bw.WriteByte(0)
		}
		moviOffset += 8 + pad(len(f))

		s, e := w.audioSliceBounds(i)
		if e <= s {
			continue
		}
		sampleBuf = sampleBuf[:0]
		for _, smp := range w.audio[s:e] {
			sampleBuf = append(sampleBuf, byte(smp), byte(smp>>8))
		}
		index = append(index, idxEntry{"01wb", moviOffset, uint32(len(sampleBuf))})
		writeFourCC("01wb")
		writeUint32(uint32(len(sampleBuf)))
		bw.Write(sampleBuf)
		moviOffset += 8 + pad(len(sampleBuf))
	}

	// === idx1 ===
	writeFourCC("idx1")
	writeUint32(uint32(len(index) * 16))
	for _, e := range index {
		writeFourCC(e.id)
		writeUint32(0x10) // AVIIF_KEYFRAME
		writeUint32(e.offset)
		writeUint32(e.size)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush AVI: %w", err)
	}
	return nil
}

// WriteFile finalizes the container into a file on disk.
func (w *AVIWriter) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := w.Finalize(f); err != nil {
		return err
	}
	return f.Sync()
}
