package reads

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coreerrors "readsanalyzer/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fastaData = `>r1 first read
AAGT
>r2
gtcc
>r3
ACG
TTA
`

const fastqData = `@q1
AAGT
+
IIII
@q2
GTCC
+
IIII
`

func collect(t *testing.T, src Source) []Read {
	t.Helper()
	var out []Read
	_, err := ForEach(src, func(r Read) error {
		out = append(out, r)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, src.Close())
	return out
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"reads.fa":          FormatFASTA,
		"reads.FASTA":       FormatFASTA,
		"dir/reads.fq.gz":   FormatFASTQ,
		"reads.fastq":       FormatFASTQ,
		"reads.txt":         FormatText,
		"reads.unknown":     FormatText,
		"/tmp/x/sample.fna": FormatFASTA,
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectFormat(path), path)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" FASTQ ")
	require.NoError(t, err)
	assert.Equal(t, FormatFASTQ, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("bam")
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeValidationError))
}

func TestFASTASource(t *testing.T) {
	src, err := NewSource(strings.NewReader(fastaData), FormatFASTA, "mem.fa")
	require.NoError(t, err)

	got := collect(t, src)
	require.Len(t, got, 3)
	assert.Equal(t, Read{ID: "r1", Sequence: "AAGT"}, got[0])
	assert.Equal(t, "GTCC", got[1].Sequence, "sequences are upper-cased")
	assert.Equal(t, "ACGTTA", got[2].Sequence, "multi-line records are joined")
}

func TestFASTQSource(t *testing.T) {
	src, err := NewSource(strings.NewReader(fastqData), FormatFASTQ, "mem.fq")
	require.NoError(t, err)

	got := collect(t, src)
	require.Len(t, got, 2)
	assert.Equal(t, "q1", got[0].ID)
	assert.Equal(t, "AAGT", got[0].Sequence)
	assert.Equal(t, "GTCC", got[1].Sequence)
}

func TestTextSource(t *testing.T) {
	data := "# comment\nAAGT\n\n  gtcc  \n"
	src, err := NewSource(strings.NewReader(data), FormatText, "mem.txt")
	require.NoError(t, err)

	got := collect(t, src)
	require.Len(t, got, 2)
	assert.Equal(t, "mem.txt:1", got[0].ID)
	assert.Equal(t, "GTCC", got[1].Sequence)
}

func TestNewSourceRejectsUnknownFormat(t *testing.T) {
	_, err := NewSource(strings.NewReader(""), Format("bam"), "x.bam")
	require.Error(t, err)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeNotSupported))
}

func TestOpenGzipAndAuto(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reads.fq.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = io.WriteString(gw, fastqData)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	src, err := Open(path, FormatAuto)
	require.NoError(t, err)
	got := collect(t, src)
	require.Len(t, got, 2)
	assert.Equal(t, "AAGT", got[0].Sequence)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.fa"), FormatAuto)
	require.Error(t, err)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeIO))
	assert.Contains(t, err.Error(), "nope.fa")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.fq", "a.fa", "notes.md", "skip/c.fa", "keep/d.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("ACGT\n"), 0o644))
	}
	explicit := filepath.Join(dir, "notes.md")

	m, err := NewMatcher(nil, []string{"skip"})
	require.NoError(t, err)

	files, err := Discover([]string{dir, explicit}, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.fa"),
		filepath.Join(dir, "b.fq"),
		filepath.Join(dir, "keep", "d.txt"),
		explicit,
	}, files)
}
