// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package fm

const (
	mpxBits   = 24
	mpxMask   = 1<<mpxBits - 1
	mpxSign   = 1 << (mpxBits - 1)
	audioMask = 0xffff

	// FullScale is the largest audio magnitude, 0 dBFS.
	FullScale = 32767
)

// Sample is one poll of the level registers.
type Sample struct {
	Left, Right int16
	MPX         uint32 // raw 24-bit two's complement
}

// ReadSample decodes the level registers through the given read function.
func ReadSample(read func(uint32) uint32) Sample {
	return Sample{
		Left:  DecodeAudio16(read(LEFT)),
		Right: DecodeAudio16(read(RIGHT)),
		MPX:   read(MPXLVL) & mpxMask,
	}
}

// MPXKHz is DecodeMPX of the raw MPX level.
func (s Sample) MPXKHz() float64 { return DecodeMPX(s.MPX) }

// SignExtend24 interprets the low 24 bits of raw as two's complement.
func SignExtend24(raw uint32) int32 {
	if raw&mpxSign != 0 {
		return int32(raw | ^uint32(mpxMask))
	}
	return int32(raw & mpxMask)
}

// DecodeMPX returns the deviation magnitude in kHz of a raw MPX level.
func DecodeMPX(raw uint32) float64 {
	v := int64(SignExtend24(raw))
	if v < 0 {
		v = -v
	}
	return float64(v) * Step / 1000
}

// DecodeAudio16 reinterprets the low half-word as a signed sample.
func DecodeAudio16(raw uint32) int16 { return int16(uint16(raw & audioMask)) }

// Magnitude is the absolute sample value clamped to FullScale.
func Magnitude(v int16) int {
	m := int(v)
	if m < 0 {
		m = -m
	}
	if m > FullScale {
		m = FullScale
	}
	return m
}
