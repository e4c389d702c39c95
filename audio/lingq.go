// Package audio produces spoken audio for lesson text.
package audio

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dpetersen/lingq-api/lingq"
)

type Speaker interface {
	GetTTSSpeech(ctx context.Context, request lingq.TTSRequest) (*lingq.TTSResult, error)
}

// LingQSynthesizer asks LingQ's own TTS endpoint for speech and downloads
// the file it points at.
type LingQSynthesizer struct {
	speaker Speaker
	client  *resty.Client
}

func NewLingQSynthesizer(speaker Speaker) *LingQSynthesizer {
	return &LingQSynthesizer{
		speaker: speaker,
		client:  resty.New(),
	}
}

func (s *LingQSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	result, err := s.speaker.GetTTSSpeech(ctx, lingq.TTSRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, errors.Wrap(err, "requesting speech")
	}

	logrus.WithFields(logrus.Fields{
		"id":    result.ID,
		"audio": result.Audio,
	}).Debug("Downloading LingQ speech")

	resp, err := s.client.R().SetContext(ctx).Get(result.Audio)
	if err != nil {
		return nil, errors.Wrap(err, "downloading audio")
	}

	if !resp.IsSuccess() {
		return nil, errors.Errorf("downloading audio: got unexpected status code: %d", resp.StatusCode())
	}

	return resp.Body(), nil
}
