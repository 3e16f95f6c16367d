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
	"context"
	"io"
	"sync"

	"github.com/exascience/pargo/pipeline"

	"github.com/varg-aligner/varg/graph"
)

// Read is one named read with an optional quality string.
type Read struct {
	Name string
	Seq  string
	Qual []byte
}

// Source supplies reads to AlignAll. Next returns up to max reads, or
// io.EOF when the input is exhausted.
type Source interface {
	Next(max int) ([]Read, error)
}

// Sink records batch results. AlignAll serializes Write calls and
// issues them in input order.
type Sink interface {
	Write(batch []Read, res *Results) error
}

type readBatch struct {
	reads []Read
	res   *Results
}

// batchSource adapts a Source to a pargo pipeline source. Each data
// item is one read batch of the engine's capacity.
type batchSource struct {
	src      Source
	capacity int
	batch    []Read
	err      error
}

// Err implements the corresponding method of pipeline.Source
func (s *batchSource) Err() error {
	if s.err != io.EOF {
		return s.err
	}
	return nil
}

// Prepare implements the corresponding method of pipeline.Source
func (s *batchSource) Prepare(_ context.Context) (size int) {
	return -1
}

// Fetch implements the corresponding method of pipeline.Source
func (s *batchSource) Fetch(size int) (fetched int) {
	if s.err != nil {
		return 0
	}
	batch, err := s.src.Next(s.capacity)
	if err != nil {
		s.err = err
		s.batch = nil
		return 0
	}
	s.batch = batch
	return 1
}

// Data implements the corresponding method of pipeline.Source
func (s *batchSource) Data() interface{} {
	return s.batch
}

// AlignAll drives the engine over every read the source supplies: read
// batches are aligned in parallel, one engine instance per worker, and
// results are written to the sink in input order. The engine itself
// stays single-threaded per batch; this is the external worker pool the
// engine's contract expects.
func AlignAll(g *graph.Graph, src Source, sink Sink, readLen int, prof ScoreProfile, fwdOnly bool, opts ...Option) error {
	aligners := sync.Pool{New: func() interface{} {
		a, err := New(readLen, prof, opts...)
		if err != nil {
			return err
		}
		return a
	}}
	// Surface configuration errors before spawning the pipeline.
	first := aligners.Get()
	if err, failed := first.(error); failed {
		return err
	}
	aligners.Put(first)

	var capacity int
	{
		a := aligners.Get().(Aligner)
		capacity = a.ReadCapacity()
		aligners.Put(a)
	}

	var p pipeline.Pipeline
	p.Source(&batchSource{src: src, capacity: capacity})
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			batch := data.([]Read)
			if len(batch) == 0 {
				return readBatch{}
			}
			a := aligners.Get().(Aligner)
			defer aligners.Put(a)
			reads := make([]string, len(batch))
			quals := make([][]byte, len(batch))
			hasQuals := false
			for i, r := range batch {
				reads[i] = r.Seq
				quals[i] = r.Qual
				hasQuals = hasQuals || len(r.Qual) > 0
			}
			if !hasQuals {
				quals = nil
			}
			res := new(Results)
			if err := a.AlignInto(reads, quals, g, res, fwdOnly); err != nil {
				p.SetErr(err)
				return readBatch{}
			}
			return readBatch{reads: batch, res: res}
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			batch := data.(readBatch)
			if len(batch.reads) == 0 {
				return data
			}
			if err := sink.Write(batch.reads, batch.res); err != nil {
				p.SetErr(err)
			}
			return data
		})),
	)
	p.Run()
	return p.Err()
}
