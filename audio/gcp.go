package audio

import (
	"context"
	"math/rand"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var voiceNames = map[string][]string{
	"es": {
		"es-US-Studio-B",
		"es-US-Neural2-A",
		"es-US-Neural2-B",
		"es-US-Neural2-C",
	},
	"he": {
		"he-IL-Wavenet-A",
		"he-IL-Wavenet-B",
		"he-IL-Wavenet-C",
		"he-IL-Wavenet-D",
	},
}

// GoogleSynthesizer uses Google Cloud Text-to-Speech. Credentials come from
// GOOGLE_APPLICATION_CREDENTIALS.
type GoogleSynthesizer struct {
	languageCode string
}

// NewGoogleSynthesizer returns a synthesizer for a LingQ language code such
// as "he" or "es".
func NewGoogleSynthesizer(languageCode string) *GoogleSynthesizer {
	return &GoogleSynthesizer{languageCode: languageCode}
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "creating text-to-speech client")
	}
	defer client.Close()

	request := g.synthesizeRequest(text, voice)
	logrus.WithField("voice", request.Voice.Name).Debug("Synthesizing speech with Google")

	resp, err := client.SynthesizeSpeech(ctx, request)
	if err != nil {
		return nil, errors.Wrap(err, "synthesizing speech")
	}

	return resp.AudioContent, nil
}

func (g *GoogleSynthesizer) synthesizeRequest(text, voice string) *texttospeechpb.SynthesizeSpeechRequest {
	if voice == "" {
		voice = randomVoiceName(g.languageCode)
	}

	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			Name:         voice,
			LanguageCode: voiceLanguage(voice, g.languageCode),
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}
}

// voiceLanguage pulls the BCP-47 code out of a voice name like
// "es-US-Neural2-B".
func voiceLanguage(voice, fallback string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 3 {
		return fallback
	}

	return parts[0] + "-" + parts[1]
}

func randomVoiceName(languageCode string) string {
	names := voiceNames[languageCode]
	if len(names) == 0 {
		return ""
	}

	return names[rand.Intn(len(names))]
}
