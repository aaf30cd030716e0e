// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package sound

import (
	"context"

	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/optional"
)

// NewSampler evaluates s at rate samples per second as a finite stream of
// rate*seconds samples. The signal is only evaluated as the stream is pulled.
func NewSampler(s Sound, rate int, seconds float64) lang.Iterator[float64] {
	return &sampler{
		sound: s,
		rate:  float64(rate),
		count: int64(seconds * float64(rate)),
	}
}

type sampler struct {
	sound Sound
	rate  float64
	count int64
	next  int64
}

func (self *sampler) Next(ctx context.Context) optional.Optional[float64] {
	if self.next >= self.count {
		return optional.None[float64]()
	}
	t := float64(self.next) / self.rate
	self.next = self.next + 1
	return optional.Some(self.sound(t))
}

func (self *sampler) Close(ctx context.Context) error {
	return nil
}
