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

// Package fastx reads FASTA and FASTQ files, plain or gzip compressed,
// into read batches for the aligner. Bases outside ACGT are normalized
// to N before they reach the engine.
package fastx

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"

	"github.com/varg-aligner/varg/align"
	"github.com/varg-aligner/varg/dna"
)

// Reader yields reads from a FASTA or FASTQ stream. It implements
// align.Source.
type Reader struct {
	fa      *fasta.Reader
	fq      *fastq.Reader
	closers []io.Closer
}

type options struct {
	encoding alphabet.Encoding
}

// Option configures Open and NewReader.
type Option func(*options)

// Phred64 selects Illumina 1.3 quality encoding (Phred+64) for FASTQ
// input instead of the default Sanger Phred+33.
func Phred64() Option {
	return func(o *options) { o.encoding = alphabet.Illumina1_3 }
}

// Open opens a FASTA or FASTQ file, transparently decompressing gzip.
// The format is sniffed from the first record marker, like the leading
// '>' vs '@' distinction of the original read files.
func Open(filename string, opts ...Option) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader wraps an arbitrary stream. See Open.
func NewReader(in io.Reader, opts ...Option) (*Reader, error) {
	o := options{encoding: alphabet.Sanger}
	for _, opt := range opts {
		opt(&o)
	}
	buf := bufio.NewReader(in)
	magic, err := buf.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("empty sequence input: %v", err)
	}
	r := new(Reader)
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(buf)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, gz)
		buf = bufio.NewReader(gz)
		if magic, err = buf.Peek(1); err != nil {
			return nil, fmt.Errorf("empty sequence input: %v", err)
		}
	}
	switch magic[0] {
	case '>':
		r.fa = fasta.NewReader(buf, linear.NewSeq("", nil, alphabet.DNAredundant))
	case '@':
		r.fq = fastq.NewReader(buf, linear.NewQSeq("", nil, alphabet.DNAredundant, o.encoding))
	default:
		return nil, fmt.Errorf("unrecognized sequence format: leading byte %q", magic[0])
	}
	return r, nil
}

// Next returns up to max reads, or io.EOF when the input is exhausted.
func (r *Reader) Next(max int) ([]align.Read, error) {
	var batch []align.Read
	for len(batch) < max {
		read, err := r.read()
		if err == io.EOF {
			if len(batch) > 0 {
				return batch, nil
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		batch = append(batch, read)
	}
	return batch, nil
}

func (r *Reader) read() (align.Read, error) {
	if r.fa != nil {
		s, err := r.fa.Read()
		if err != nil {
			return align.Read{}, err
		}
		l := s.(*linear.Seq)
		buf := make([]byte, len(l.Seq))
		for i, c := range l.Seq {
			buf[i] = dna.FromChar(byte(c)).Char()
		}
		return align.Read{Name: l.Name(), Seq: string(buf)}, nil
	}
	s, err := r.fq.Read()
	if err != nil {
		return align.Read{}, err
	}
	l := s.(*linear.QSeq)
	buf := make([]byte, len(l.Seq))
	qual := make([]byte, len(l.Seq))
	for i, c := range l.Seq {
		buf[i] = dna.FromChar(byte(c.L)).Char()
		qual[i] = byte(c.Q)
	}
	return align.Read{Name: l.Name(), Seq: string(buf), Qual: qual}, nil
}

// Close releases the underlying file and decompressor, if any.
func (r *Reader) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if cerr := r.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}
