// varg: a vectorized read-to-variation-graph aligner.
// Copyright (c) 2026 the varg authors.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License along with this program. If not, see
// <https://github.com/varg-aligner/varg/blob/master/LICENSE.txt>.

package simd

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features names the widest integer vector instruction set the host
// supports. The portable kernels do not depend on it; it is surfaced so
// the command line tools can report what the compiler can auto-vectorize
// against.
func Features() string {
	switch runtime.GOARCH {
	case "amd64":
		switch {
		case cpu.X86.HasAVX512BW:
			return "AVX-512BW"
		case cpu.X86.HasAVX2:
			return "AVX2"
		default:
			return "SSE2"
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			return "NEON"
		}
	}
	return "scalar"
}

// VectorBits is the width in bits of the vector named by Features.
func VectorBits() int {
	switch Features() {
	case "AVX-512BW":
		return 512
	case "AVX2":
		return 256
	case "SSE2", "NEON":
		return 128
	}
	return 64
}
