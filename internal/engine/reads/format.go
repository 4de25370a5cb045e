package reads

import (
	"path/filepath"
	"strings"

	coreerrors "readsanalyzer/internal/core/errors"
)

type Format string

const (
	FormatAuto  Format = "auto"
	FormatFASTA Format = "fasta"
	FormatFASTQ Format = "fastq"
	FormatText  Format = "text"
)

var extensionFormats = map[string]Format{
	".fa":    FormatFASTA,
	".fasta": FormatFASTA,
	".fna":   FormatFASTA,
	".fq":    FormatFASTQ,
	".fastq": FormatFASTQ,
	".txt":   FormatText,
	".seq":   FormatText,
}

// DefaultInclude lists the file patterns picked up when scanning a directory.
var DefaultInclude = []string{
	"*.fa", "*.fasta", "*.fna", "*.fq", "*.fastq", "*.txt", "*.seq",
	"*.fa.gz", "*.fasta.gz", "*.fna.gz", "*.fq.gz", "*.fastq.gz", "*.txt.gz", "*.seq.gz",
}

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatFASTA, FormatFASTQ, FormatText:
		return f, nil
	default:
		return "", coreerrors.Newf(coreerrors.CodeValidationError, "unknown read format %q", raw)
	}
}

// DetectFormat guesses the format from the file name, looking through a
// trailing .gz. Unknown extensions fall back to plain text.
func DetectFormat(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	if f, ok := extensionFormats[filepath.Ext(name)]; ok {
		return f
	}
	return FormatText
}
