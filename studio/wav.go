package studio

import (
	"bytes"
	"encoding/binary"

	"tooncraft/config"
)

// pcmToWAV wraps raw 16-bit little-endian PCM from the speech backend in a
// standard 44-byte RIFF header so browsers and players accept it directly.
func pcmToWAV(pcm []byte) []byte {
	const headerSize = 44
	sampleRate := uint32(config.AudioSampleRate)
	channels := uint16(config.AudioChannels)
	bitsPerSample := uint16(config.AudioBitsPerSample)
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * uint32(blockAlign)

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM format
	binary.Write(buf, binary.LittleEndian, channels)
	binary.Write(buf, binary.LittleEndian, sampleRate)
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bitsPerSample)
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
