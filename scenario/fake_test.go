package scenario_test

import (
	"context"
	"net/http"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/dpetersen/lingq-api/lingq"
)

// fakeAPI keeps lessons in memory and renumbers sentences the way LingQ does.
type fakeAPI struct {
	nextID  int
	current int
	lessons map[int]*fakeLesson
	calls   []string
	voices  []string
}

type fakeLesson struct {
	sentences []string
	breaks    map[int]bool
	stats     lingq.LessonStats
	audio     []byte
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 100, lessons: map[int]*fakeLesson{}}
}

func (f *fakeAPI) create(text string) int {
	f.nextID++
	f.lessons[f.nextID] = &fakeLesson{sentences: []string{text}, breaks: map[int]bool{}}
	f.current = f.nextID

	return f.nextID
}

func (f *fakeAPI) lesson() (*fakeLesson, error) {
	l, ok := f.lessons[f.current]
	if !ok {
		return nil, errors.Wrapf(lingq.ErrNotFound, "lesson %d", f.current)
	}

	return l, nil
}

func (f *fakeAPI) sentence(index int) (*fakeLesson, error) {
	l, err := f.lesson()
	if err != nil {
		return nil, err
	}

	if index < 1 || index > len(l.sentences) {
		return nil, errors.Wrapf(lingq.ErrRequestFailed, "no sentence %d", index)
	}

	return l, nil
}

func (f *fakeAPI) CreateLesson(_ context.Context, params lingq.LessonParams) (*lingq.LessonCreated, error) {
	f.calls = append(f.calls, "CreateLesson")
	return &lingq.LessonCreated{ID: f.create(params.Text), Title: params.Title}, nil
}

func (f *fakeAPI) ImportLesson(_ context.Context, params lingq.LessonParams, files lingq.ImportFiles) (*lingq.LessonCreated, error) {
	f.calls = append(f.calls, "ImportLesson")

	text, err := os.ReadFile(files.TextPath)
	if err != nil {
		return nil, err
	}
	audio, err := os.ReadFile(files.AudioPath)
	if err != nil {
		return nil, err
	}

	id := f.create(string(text))
	f.lessons[id].audio = audio

	return &lingq.LessonCreated{ID: id, Title: params.Title}, nil
}

func (f *fakeAPI) GetLessonByID(_ context.Context, id int) (*lingq.Lesson, error) {
	f.calls = append(f.calls, "GetLessonByID")
	f.current = id

	l, err := f.lesson()
	if err != nil {
		return nil, err
	}

	lesson := &lingq.Lesson{ID: id, Title: "fake"}
	for i, text := range l.sentences {
		index := i + 1
		if i == 0 || l.breaks[index] {
			lesson.Paragraphs = append(lesson.Paragraphs, lingq.Paragraph{Index: len(lesson.Paragraphs)})
		}
		p := &lesson.Paragraphs[len(lesson.Paragraphs)-1]
		p.Sentences = append(p.Sentences, lingq.Sentence{Index: index, Text: text})
	}

	return lesson, nil
}

func (f *fakeAPI) DeleteLesson(_ context.Context, id int) (*lingq.Response, error) {
	f.calls = append(f.calls, "DeleteLesson")
	if _, ok := f.lessons[id]; !ok {
		return &lingq.Response{StatusCode: http.StatusNotFound}, nil
	}

	delete(f.lessons, id)

	return &lingq.Response{StatusCode: http.StatusNoContent}, nil
}

func (f *fakeAPI) CreateSentence(_ context.Context, index int, text string, after bool) (*lingq.Sentence, error) {
	f.calls = append(f.calls, "CreateSentence")

	l, err := f.sentence(index)
	if err != nil {
		return nil, err
	}

	pos := index - 1
	if after {
		pos = index
	}
	l.sentences = append(l.sentences[:pos], append([]string{text}, l.sentences[pos:]...)...)

	return &lingq.Sentence{Index: pos + 1, Text: text}, nil
}

func (f *fakeAPI) UpdateSentenceText(_ context.Context, index int, text string) (*lingq.Sentence, error) {
	f.calls = append(f.calls, "UpdateSentenceText")

	l, err := f.sentence(index)
	if err != nil {
		return nil, err
	}
	l.sentences[index-1] = text

	return &lingq.Sentence{Index: index, Text: text}, nil
}

func (f *fakeAPI) UpdateSentenceTimestamp(_ context.Context, index int, timestamp lingq.Timestamp) (*lingq.Sentence, error) {
	f.calls = append(f.calls, "UpdateSentenceTimestamp")

	l, err := f.sentence(index)
	if err != nil {
		return nil, err
	}

	return &lingq.Sentence{Index: index, Text: l.sentences[index-1], Timestamp: timestamp}, nil
}

func (f *fakeAPI) DeleteSentence(_ context.Context, index int) (*lingq.Response, error) {
	f.calls = append(f.calls, "DeleteSentence")

	l, err := f.sentence(index)
	if err != nil {
		return nil, err
	}
	l.sentences = append(l.sentences[:index-1], l.sentences[index:]...)

	return &lingq.Response{StatusCode: http.StatusNoContent}, nil
}

func (f *fakeAPI) BreakSentence(_ context.Context, index int) (*lingq.Response, error) {
	f.calls = append(f.calls, "BreakSentence")

	l, err := f.sentence(index)
	if err != nil {
		return nil, err
	}
	l.breaks[index] = true

	return &lingq.Response{StatusCode: http.StatusOK}, nil
}

func (f *fakeAPI) GetLessonWords(context.Context) (*lingq.LessonWords, error) {
	f.calls = append(f.calls, "GetLessonWords")
	if _, err := f.lesson(); err != nil {
		return nil, err
	}

	return &lingq.LessonWords{Cards: map[string]lingq.Card{}, Words: map[string]lingq.Word{}}, nil
}

func (f *fakeAPI) UpdateCardStatus(_ context.Context, update lingq.CardStatusUpdate) (*lingq.Card, error) {
	f.calls = append(f.calls, "UpdateCardStatus")
	return &lingq.Card{PK: update.CardID, Status: update.Status}, nil
}

func (f *fakeAPI) CreateBookmark(context.Context, int, string) (bool, error) {
	f.calls = append(f.calls, "CreateBookmark")
	_, err := f.lesson()

	return err == nil, err
}

func (f *fakeAPI) IncrementStats(_ context.Context, inc lingq.StatsIncrement) (*lingq.LessonStats, error) {
	f.calls = append(f.calls, "IncrementStats")

	l, err := f.lesson()
	if err != nil {
		return nil, err
	}

	switch inc.Kind {
	case lingq.ReadTimes:
		l.stats.ReadTimes += inc.Amount
	case lingq.ListenTimes:
		l.stats.ListenTimes += inc.Amount
	}
	stats := l.stats

	return &stats, nil
}

func (f *fakeAPI) SetLesson(id int) {
	f.current = id
}

func (f *fakeAPI) GetTTSSpeech(_ context.Context, request lingq.TTSRequest) (*lingq.TTSResult, error) {
	f.calls = append(f.calls, "GetTTSSpeech")
	f.voices = append(f.voices, request.Voice)
	return &lingq.TTSResult{ID: 1, Voice: request.Voice, Text: request.Text, Audio: "https://cdn.example/1.mp3"}, nil
}

// uniqueCalls lists the methods called at least once, sorted.
func (f *fakeAPI) uniqueCalls() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range f.calls {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)

	return out
}
