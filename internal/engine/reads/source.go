package reads

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	coreerrors "readsanalyzer/internal/core/errors"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
)

const maxTextLine = 16 * 1024 * 1024

// Source yields reads one at a time. Read returns io.EOF once exhausted.
type Source interface {
	Read() (Read, error)
	Close() error
}

// Open opens path ("-" for stdin, optionally gzip-compressed) as a Source.
// FormatAuto picks the format from the file extension.
func Open(path string, format Format) (Source, error) {
	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}
	rc, err := openReader(path)
	if err != nil {
		return nil, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeIO, "open reads"),
			coreerrors.CtxPath, path,
		)
	}
	src, err := NewSource(rc, format, path)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return src, nil
}

// NewSource wraps r. The returned Source closes r when r is an io.Closer.
func NewSource(r io.Reader, format Format, name string) (Source, error) {
	closer, _ := r.(io.Closer)
	base := sourceBase{name: name, closer: closer}
	switch format {
	case FormatFASTA:
		return &fastaSource{
			sourceBase: base,
			r:          fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)),
		}, nil
	case FormatFASTQ:
		return &fastqSource{
			sourceBase: base,
			r:          fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger)),
		}, nil
	case FormatText:
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxTextLine)
		return &textSource{sourceBase: base, sc: sc}, nil
	default:
		return nil, coreerrors.AddContext(
			coreerrors.Newf(coreerrors.CodeNotSupported, "unsupported read format %q", format),
			coreerrors.CtxPath, name,
		)
	}
}

type sourceBase struct {
	name   string
	closer io.Closer
	n      int
}

func (b *sourceBase) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func (b *sourceBase) fail(err error) error {
	return coreerrors.AddContext(
		coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeInvalidInput, "parse reads"),
			coreerrors.CtxPath, b.name,
		),
		coreerrors.CtxRecord, b.n+1,
	)
}

func (b *sourceBase) fallbackID() string {
	return fmt.Sprintf("%s:%d", b.name, b.n)
}

type fastaSource struct {
	sourceBase
	r *fasta.Reader
}

func (s *fastaSource) Read() (Read, error) {
	for {
		rec, err := s.r.Read()
		if err == io.EOF {
			return Read{}, io.EOF
		}
		if err != nil {
			return Read{}, s.fail(err)
		}
		l, ok := rec.(*linear.Seq)
		if !ok {
			return Read{}, s.fail(fmt.Errorf("unexpected record type %T", rec))
		}
		s.n++
		r := NewRead(l.ID, letters(l.Seq))
		if r.Len() == 0 {
			continue
		}
		if r.ID == "" {
			r.ID = s.fallbackID()
		}
		return r, nil
	}
}

type fastqSource struct {
	sourceBase
	r *fastq.Reader
}

func (s *fastqSource) Read() (Read, error) {
	for {
		rec, err := s.r.Read()
		if err == io.EOF {
			return Read{}, io.EOF
		}
		if err != nil {
			return Read{}, s.fail(err)
		}
		q, ok := rec.(*linear.QSeq)
		if !ok {
			return Read{}, s.fail(fmt.Errorf("unexpected record type %T", rec))
		}
		s.n++
		b := make([]byte, len(q.Seq))
		for i, ql := range q.Seq {
			b[i] = byte(ql.L)
		}
		r := NewRead(q.ID, string(b))
		if r.Len() == 0 {
			continue
		}
		if r.ID == "" {
			r.ID = s.fallbackID()
		}
		return r, nil
	}
}

// textSource reads one sequence per line; blank lines and '#' comments are
// skipped.
type textSource struct {
	sourceBase
	sc *bufio.Scanner
}

func (s *textSource) Read() (Read, error) {
	for s.sc.Scan() {
		line := strings.TrimSpace(s.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.n++
		return NewRead(s.fallbackID(), line), nil
	}
	if err := s.sc.Err(); err != nil {
		return Read{}, s.fail(err)
	}
	return Read{}, io.EOF
}

func letters(ls alphabet.Letters) string {
	b := make([]byte, len(ls))
	for i, l := range ls {
		b[i] = byte(l)
	}
	return string(b)
}

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return fh, nil
}

// ForEach drains src, calling fn for every read in order.
func ForEach(src Source, fn func(Read) error) (int, error) {
	n := 0
	for {
		r, err := src.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := fn(r); err != nil {
			return n, err
		}
		n++
	}
}
