// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sim

import "math/rand"

// Sampler draws outcomes from distributions using an explicitly owned
// random source. The source is seeded once, before the first draw of a
// batch, so a given seed reproduces the identical outcome sequence.
// There is no hidden process-wide randomness anywhere in this package.
//
// A Sampler is not safe for concurrent use. Callers that parallelize
// across games must give each game its own Sampler.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler seeded with the given seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// NewSamplerFrom returns a Sampler that draws from an existing source.
func NewSamplerFrom(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Draw selects one outcome from d in proportion to its weights. The
// distribution must have been validated; Draw normalizes weights that do
// not sum to 1 but does not re-check signs.
func (s *Sampler) Draw(d Distribution) Outcome {
	w, total := d.weights()
	r := s.rng.Float64() * total
	var cum float64
	for i, o := range Outcomes {
		cum += w[i]
		if r < cum {
			return o
		}
	}
	// Float rounding can leave r a hair past the final cumulative
	// weight. Return the last outcome with positive weight.
	for i := len(Outcomes) - 1; i >= 0; i-- {
		if w[i] > 0 {
			return Outcomes[i]
		}
	}
	return Out
}
