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

package align

import (
	"io"
	"sync"
	"testing"
)

type sliceSource struct {
	reads []Read
	next  int
}

func (s *sliceSource) Next(max int) ([]Read, error) {
	if s.next >= len(s.reads) {
		return nil, io.EOF
	}
	end := min(s.next+max, len(s.reads))
	batch := s.reads[s.next:end]
	s.next = end
	return batch, nil
}

type collectSink struct {
	mu    sync.Mutex
	names []string
	score map[string]int
}

func (s *collectSink) Write(batch []Read, res *Results) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.score == nil {
		s.score = make(map[string]int)
	}
	for i, r := range batch {
		s.names = append(s.names, r.Name)
		s.score[r.Name] = res.MaxScore[i]
	}
	return nil
}

func TestAlignAll(t *testing.T) {
	g := diamondGraph(t)
	// Enough reads for several engine batches, cycling through known
	// alignments.
	known := []struct {
		seq   string
		score int
	}{
		{"CCTT", 8},
		{"GGTT", 8},
		{"AAGG", 8},
		{"AGGGT", 10},
		{"AAATTTA", 8},
	}
	var src sliceSource
	for i := 0; i < 100; i++ {
		k := known[i%len(known)]
		src.reads = append(src.reads, Read{Name: name(i), Seq: k.seq})
	}
	var sink collectSink
	if err := AlignAll(g, &src, &sink, 7, NewScoreProfile(2, 2, 3, 1), true); err != nil {
		t.Fatal(err)
	}
	if len(sink.names) != 100 {
		t.Fatalf("sink received %v reads, want 100", len(sink.names))
	}
	// Ordered delivery.
	for i, n := range sink.names {
		if n != name(i) {
			t.Errorf("read %v delivered at slot %v", n, i)
			break
		}
	}
	for i := 0; i < 100; i++ {
		k := known[i%len(known)]
		if got := sink.score[name(i)]; got != k.score {
			t.Errorf("read %v (%v): score %v, want %v", i, k.seq, got, k.score)
		}
	}
}

func name(i int) string {
	return "read" + string(rune('A'+i/26)) + string(rune('A'+i%26))
}

func TestAlignAllConfigError(t *testing.T) {
	g := diamondGraph(t)
	prof := NewScoreProfile(3, 2, 2, 2)
	prof.EndToEnd = true
	var src sliceSource
	var sink collectSink
	if err := AlignAll(g, &src, &sink, 100, prof, true); err == nil {
		t.Error("expected a configuration error")
	}
}
