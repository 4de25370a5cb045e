package output

import (
	"context"

	coreerrors "readsanalyzer/internal/core/errors"
	"readsanalyzer/internal/shared/util"
)

// FileSink writes each assembled sequence to a text file as a single line,
// replacing the previous content.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Write(ctx context.Context, sequence string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := util.WriteOutput(s.path, sequence+"\n"); err != nil {
		return coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeIO, "write assembly"),
			coreerrors.CtxPath, s.path,
		)
	}
	return nil
}
