// Package scenario registers the end-to-end checks of the LingQ client: a
// lesson is created, read, edited and deleted against the live service, and
// every step after creation works on the lesson the first step made.
package scenario

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dpetersen/lingq-api/harness"
	"github.com/dpetersen/lingq-api/lingq"
)

// API is the part of *lingq.Client the scenario uses.
type API interface {
	CreateLesson(ctx context.Context, params lingq.LessonParams) (*lingq.LessonCreated, error)
	ImportLesson(ctx context.Context, params lingq.LessonParams, files lingq.ImportFiles) (*lingq.LessonCreated, error)
	GetLessonByID(ctx context.Context, id int) (*lingq.Lesson, error)
	DeleteLesson(ctx context.Context, id int) (*lingq.Response, error)
	CreateSentence(ctx context.Context, index int, text string, after bool) (*lingq.Sentence, error)
	UpdateSentenceText(ctx context.Context, index int, text string) (*lingq.Sentence, error)
	UpdateSentenceTimestamp(ctx context.Context, index int, timestamp lingq.Timestamp) (*lingq.Sentence, error)
	DeleteSentence(ctx context.Context, index int) (*lingq.Response, error)
	BreakSentence(ctx context.Context, index int) (*lingq.Response, error)
	GetLessonWords(ctx context.Context) (*lingq.LessonWords, error)
	UpdateCardStatus(ctx context.Context, update lingq.CardStatusUpdate) (*lingq.Card, error)
	CreateBookmark(ctx context.Context, wordIndex int, client string) (bool, error)
	IncrementStats(ctx context.Context, inc lingq.StatsIncrement) (*lingq.LessonStats, error)
	GetTTSSpeech(ctx context.Context, request lingq.TTSRequest) (*lingq.TTSResult, error)
	SetLesson(id int)
}

// Synthesizer turns text into audio for the lesson import check.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Values passed between steps.
const (
	LessonKey   = "lessonID"
	ImportedKey = "importedLessonID"
)

// SourceTag marks lessons and stats created by the scenario.
const SourceTag = "lingq-api-test"

const (
	bookmarkClient = "web"
	secondSentence = "Second sentence."
	insertedText   = "Inserted sentence."
	updatedText    = "Updated sentence."
	defaultTitle   = "Test Lesson"
	defaultText    = "Initial text. " + secondSentence
)

// Voices used when Options.TTSVoice is empty. Other languages send no voice
// and let the service or synthesizer pick one.
var defaultVoices = map[string]string{
	"he": "he-IL-Wavenet-A",
	"es": "es-US-Neural2-B",
}

type Options struct {
	Language string
	Title    string
	Text     string
	// CardID enables the card status check. New lessons have no cards, so
	// it has to be an existing card of the account.
	CardID   int
	TTSVoice string
	// Synthesizer enables the audio import check.
	Synthesizer Synthesizer
	// TempDir holds the files uploaded by the import check.
	TempDir string
}

func (o *Options) defaults() {
	if o.Title == "" {
		o.Title = defaultTitle
	}
	if o.Text == "" {
		o.Text = defaultText
	}
	if o.TTSVoice == "" {
		o.TTSVoice = defaultVoices[o.Language]
	}
}

func (o Options) lessonParams(title string) lingq.LessonParams {
	return lingq.LessonParams{
		Title:    title,
		Text:     o.Text,
		Language: o.Language,
		Status:   "private",
		IsHidden: true,
		Tags:     []string{SourceTag},
		Save:     true,
	}
}

// Register adds the scenario to suite.
func Register(suite *harness.Suite, api API, opts Options) {
	opts.defaults()
	s := &steps{api: api, opts: opts}

	suite.Group("lesson lifecycle", func() {
		suite.Test("create lesson", s.createLesson, harness.Blocking(), harness.Produces(LessonKey))
		// Only a failed create stops the group. Once the lesson exists the
		// delete below has to run, or the lesson stays on the account.
		suite.Test("get lesson", s.getLesson, harness.Needs(LessonKey))

		suite.Group("sentences", func() {
			suite.Test("create sentence before first", s.createSentenceBefore, harness.Needs(LessonKey))
			suite.Test("create sentence after first", s.createSentenceAfter, harness.Needs(LessonKey))
			suite.Test("update sentence text", s.updateSentenceText, harness.Needs(LessonKey))
			suite.Test("update sentence timestamp", s.updateSentenceTimestamp, harness.Needs(LessonKey))
			suite.Test("break sentence", s.breakSentence, harness.Needs(LessonKey))
			suite.Test("delete sentence", s.deleteSentence, harness.Needs(LessonKey))
		})

		suite.Group("vocabulary", func() {
			suite.Test("get lesson words", s.getLessonWords, harness.Needs(LessonKey))
			if opts.CardID != 0 {
				suite.Test("update card status", s.updateCardStatus)
			}
			suite.Test("create bookmark", s.createBookmark, harness.Needs(LessonKey))
		})

		suite.Group("stats", func() {
			suite.Test("increment read times", s.incrementStats(lingq.ReadTimes), harness.Needs(LessonKey))
			suite.Test("increment listen times", s.incrementStats(lingq.ListenTimes), harness.Needs(LessonKey))
		})

		suite.Test("delete lesson", s.deleteLesson(LessonKey), harness.Blocking(), harness.Needs(LessonKey))
		suite.Test("deleted lesson is gone", s.lessonIsGone(LessonKey), harness.Needs(LessonKey))
	}, harness.Blocking())

	suite.Test("text to speech", s.textToSpeech)

	if opts.Synthesizer != nil {
		suite.Group("import lesson with audio", func() {
			suite.Test("import lesson", s.importLesson, harness.Blocking(), harness.Produces(ImportedKey))
			suite.Test("delete imported lesson", s.deleteLesson(ImportedKey), harness.Blocking(), harness.Needs(ImportedKey))
			suite.Test("imported lesson is gone", s.lessonIsGone(ImportedKey), harness.Needs(ImportedKey))
		}, harness.Blocking())
	}
}

type steps struct {
	api  API
	opts Options
}

func (s *steps) createLesson(ctx context.Context, _ harness.Values) (harness.Values, error) {
	created, err := s.api.CreateLesson(ctx, s.opts.lessonParams(s.opts.Title))
	if err != nil {
		return nil, err
	}

	if created.ID <= 0 {
		return nil, errors.Errorf("created lesson has id %d", created.ID)
	}

	return harness.Values{LessonKey: created.ID}, nil
}

// use points the client at the lesson the create step produced.
func (s *steps) use(in harness.Values) {
	s.api.SetLesson(in.Int(LessonKey))
}

func (s *steps) lesson(ctx context.Context, in harness.Values) (*lingq.Lesson, error) {
	id := in.Int(LessonKey)

	lesson, err := s.api.GetLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if lesson.ID != id {
		return nil, errors.Errorf("asked for lesson %d, got %d", id, lesson.ID)
	}

	return lesson, nil
}

func (s *steps) getLesson(ctx context.Context, in harness.Values) (harness.Values, error) {
	lesson, err := s.lesson(ctx, in)
	if err != nil {
		return nil, err
	}

	if len(lesson.Sentences()) == 0 {
		return nil, errors.New("lesson has no sentences")
	}

	return nil, nil
}

// createSentenceBefore checks that inserting at an index pushes the previous
// occupant one place along.
func (s *steps) createSentenceBefore(ctx context.Context, in harness.Values) (harness.Values, error) {
	before, err := s.lesson(ctx, in)
	if err != nil {
		return nil, err
	}

	first, ok := before.SentenceAt(1)
	if !ok {
		return nil, errors.New("lesson has no first sentence")
	}

	s.use(in)
	if _, err := s.api.CreateSentence(ctx, 1, insertedText, false); err != nil {
		return nil, err
	}

	after, err := s.lesson(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := expectText(after, 1, insertedText); err != nil {
		return nil, err
	}

	return nil, expectText(after, 2, first.Text)
}

func (s *steps) createSentenceAfter(ctx context.Context, in harness.Values) (harness.Values, error) {
	s.use(in)
	if _, err := s.api.CreateSentence(ctx, 1, secondSentence, true); err != nil {
		return nil, err
	}

	lesson, err := s.lesson(ctx, in)
	if err != nil {
		return nil, err
	}

	return nil, expectText(lesson, 2, secondSentence)
}

func (s *steps) updateSentenceText(ctx context.Context, in harness.Values) (harness.Values, error) {
	s.use(in)
	sentence, err := s.api.UpdateSentenceText(ctx, 1, updatedText)
	if err != nil {
		return nil, err
	}

	if sentence.Text != updatedText {
		return nil, errors.Errorf("sentence text is %q, want %q", sentence.Text, updatedText)
	}

	lesson, err := s.lesson(ctx, in)
	if err != nil {
		return nil, err
	}

	return nil, expectText(lesson, 1, updatedText)
}

func (s *steps) updateSentenceTimestamp(ctx context.Context, in harness.Values) (harness.Values, error) {
	start, end := 0.0, 1.5

	s.use(in)
	sentence, err := s.api.UpdateSentenceTimestamp(ctx, 1, lingq.Timestamp{&start, &end})
	if err != nil {
		return nil, err
	}

	if sentence.Timestamp[1] == nil || *sentence.Timestamp[1] != end {
		return nil, errors.Errorf("sentence timestamp end was not set to %v", end)
	}

	return nil, nil
}

func (s *steps) breakSentence(ctx context.Context, in harness.Values) (harness.Values, error) {
	s.use(in)
	if _, err := s.api.BreakSentence(ctx, 2); err != nil {
		return nil, err
	}

	_, err := s.lesson(ctx, in)
	return nil, err
}

func (s *steps) deleteSentence(ctx context.Context, in harness.Values) (harness.Values, error) {
	before, err := s.lesson(ctx, in)
	if err != nil {
		return nil, err
	}

	s.use(in)
	if _, err := s.api.DeleteSentence(ctx, 1); err != nil {
		return nil, err
	}

	after, err := s.lesson(ctx, in)
	if err != nil {
		return nil, err
	}

	if got, want := len(after.Sentences()), len(before.Sentences())-1; got != want {
		return nil, errors.Errorf("lesson has %d sentences after delete, want %d", got, want)
	}

	return nil, nil
}

func (s *steps) getLessonWords(ctx context.Context, in harness.Values) (harness.Values, error) {
	s.use(in)
	words, err := s.api.GetLessonWords(ctx)
	if err != nil {
		return nil, err
	}

	if words.Cards == nil || words.Words == nil {
		return nil, errors.New("words response is missing cards or words")
	}

	return nil, nil
}

func (s *steps) updateCardStatus(ctx context.Context, _ harness.Values) (harness.Values, error) {
	card, err := s.api.UpdateCardStatus(ctx, lingq.CardStatusUpdate{CardID: s.opts.CardID, Status: lingq.CardFamiliar})
	if err != nil {
		return nil, err
	}

	if card.Status != lingq.CardFamiliar {
		return nil, errors.Errorf("card status is %d, want %d", card.Status, lingq.CardFamiliar)
	}

	return nil, nil
}

func (s *steps) createBookmark(ctx context.Context, in harness.Values) (harness.Values, error) {
	s.use(in)
	ok, err := s.api.CreateBookmark(ctx, 1, bookmarkClient)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errors.New("bookmark was not created")
	}

	return nil, nil
}

func (s *steps) incrementStats(kind lingq.StatsKind) harness.Func {
	return func(ctx context.Context, in harness.Values) (harness.Values, error) {
		s.use(in)
		stats, err := s.api.IncrementStats(ctx, lingq.StatsIncrement{Kind: kind, Amount: 1, Source: SourceTag})
		if err != nil {
			return nil, err
		}

		value := stats.ReadTimes
		if kind == lingq.ListenTimes {
			value = stats.ListenTimes
		}
		if value < 1 {
			return nil, errors.Errorf("%s is %v after increment", kind, value)
		}

		return nil, nil
	}
}

func (s *steps) deleteLesson(key string) harness.Func {
	return func(ctx context.Context, in harness.Values) (harness.Values, error) {
		resp, err := s.api.DeleteLesson(ctx, in.Int(key))
		if err != nil {
			return nil, err
		}

		if !resp.OK() {
			return nil, errors.Errorf("delete lesson returned status %d: %s", resp.StatusCode, resp.Body)
		}

		return nil, nil
	}
}

func (s *steps) lessonIsGone(key string) harness.Func {
	return func(ctx context.Context, in harness.Values) (harness.Values, error) {
		_, err := s.api.GetLessonByID(ctx, in.Int(key))
		if err == nil {
			return nil, errors.Errorf("lesson %d still exists", in.Int(key))
		}

		if !errors.Is(err, lingq.ErrNotFound) {
			return nil, errors.Wrap(err, "expected not found")
		}

		return nil, nil
	}
}

func (s *steps) textToSpeech(ctx context.Context, _ harness.Values) (harness.Values, error) {
	result, err := s.api.GetTTSSpeech(ctx, lingq.TTSRequest{Text: s.opts.Text, Voice: s.opts.TTSVoice})
	if err != nil {
		return nil, err
	}

	if result.Audio == "" {
		return nil, errors.New("speech has no audio url")
	}

	return nil, nil
}

func expectText(lesson *lingq.Lesson, index int, want string) error {
	sentence, ok := lesson.SentenceAt(index)
	if !ok {
		return errors.Errorf("lesson has no sentence %d", index)
	}

	if sentence.Text != want {
		return errors.Errorf("sentence %d is %q, want %q", index, sentence.Text, want)
	}

	return nil
}
