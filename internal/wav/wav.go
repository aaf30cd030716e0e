// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package wav writes sampled signals as 32-bit signed PCM WAV, mono.
package wav

import (
	"context"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/lang"
)

const (
	bitDepth  = 32
	channels  = 1
	pcmFormat = 1

	// samples per Write call; the encoder buffers internally anyway, this
	// just bounds our own allocation
	chunkSize = 4096
)

// Encode drains samples into w at the given sample rate. Samples are
// interpreted as amplitudes in [-1, 1]; anything outside is clamped before
// scaling to the full signed 32-bit span.
func Encode(ctx context.Context, w io.WriteSeeker, rate int, samples lang.Iterator[float64]) error {
	encoder := wav.NewEncoder(w, rate, bitDepth, channels, pcmFormat)
	buffer := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, 0, chunkSize),
		SourceBitDepth: bitDepth,
	}
	for {
		sample := samples.Next(ctx)
		if !sample.IsPresent() {
			break
		}
		buffer.Data = append(buffer.Data, quantize(sample.Value()))
		if len(buffer.Data) == chunkSize {
			if err := encoder.Write(buffer); err != nil {
				return exc.Wrap(exc.Location{}, exc.CodeWriteFailure, err)
			}
			buffer.Data = buffer.Data[:0]
		}
	}
	if len(buffer.Data) > 0 {
		if err := encoder.Write(buffer); err != nil {
			return exc.Wrap(exc.Location{}, exc.CodeWriteFailure, err)
		}
	}
	if err := encoder.Close(); err != nil {
		return exc.Wrap(exc.Location{}, exc.CodeWriteFailure, err)
	}
	return nil
}

// quantize clamps an amplitude to [-1, 1] and scales it to int32.
func quantize(amplitude float64) int {
	if amplitude > 1 {
		amplitude = 1
	}
	if amplitude < -1 {
		amplitude = -1
	}
	return int(amplitude * math.MaxInt32)
}
