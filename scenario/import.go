package scenario

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dpetersen/lingq-api/harness"
	"github.com/dpetersen/lingq-api/lingq"
)

// importLesson synthesizes audio for the lesson text and uploads both the way
// the web importer does.
func (s *steps) importLesson(ctx context.Context, _ harness.Values) (harness.Values, error) {
	audio, err := s.opts.Synthesizer.Synthesize(ctx, s.opts.Text, s.opts.TTSVoice)
	if err != nil {
		return nil, errors.Wrap(err, "synthesizing audio")
	}

	dir, err := os.MkdirTemp(s.opts.TempDir, "lingq-import-")
	if err != nil {
		return nil, errors.Wrap(err, "creating import directory")
	}
	defer os.RemoveAll(dir)

	files := lingq.ImportFiles{
		TextPath:  filepath.Join(dir, "lesson.txt"),
		AudioPath: filepath.Join(dir, "lesson.mp3"),
	}
	if err := os.WriteFile(files.TextPath, []byte(s.opts.Text), 0o600); err != nil {
		return nil, errors.Wrap(err, "writing lesson text")
	}
	if err := os.WriteFile(files.AudioPath, audio, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing lesson audio")
	}

	created, err := s.api.ImportLesson(ctx, s.opts.lessonParams(s.opts.Title+" (audio)"), files)
	if err != nil {
		return nil, err
	}

	return harness.Values{ImportedKey: created.ID}, nil
}
