package lingq

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

type Lesson struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Status      string      `json:"status"`
	Level       interface{} `json:"level"`
	Collection  *Collection `json:"collection"`
	Language    string      `json:"language"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Paragraphs  []Paragraph `json:"paragraphs"`
}

type Collection struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type Paragraph struct {
	Index     int        `json:"index"`
	Style     string     `json:"style"`
	Sentences []Sentence `json:"sentences"`
}

type Sentence struct {
	Index        int           `json:"index"`
	Text         string        `json:"text"`
	CleanText    string        `json:"cleanText"`
	Translations []Translation `json:"translations"`
	Timestamp    Timestamp     `json:"timestamp"`
}

type Translation struct {
	Language string `json:"language"`
	Text     string `json:"text"`
	Type     string `json:"type"`
}

// Timestamp is the audio position of a sentence, in seconds. Either end may
// be unset. It travels as a two element JSON array.
type Timestamp [2]*float64

// Sentences returns every sentence of the lesson in reading order.
func (l *Lesson) Sentences() []Sentence {
	var sentences []Sentence
	for _, p := range l.Paragraphs {
		sentences = append(sentences, p.Sentences...)
	}

	return sentences
}

// SentenceAt returns the sentence with the given 1-based index.
func (l *Lesson) SentenceAt(index int) (Sentence, bool) {
	for _, s := range l.Sentences() {
		if s.Index == index {
			return s, true
		}
	}

	return Sentence{}, false
}

/*
POST https://www.lingq.com/api/v3/he/lessons/import/

The same endpoint takes either JSON (CreateLesson) or multipart form data
with files (ImportLesson).
*/

type LessonParams struct {
	Title        string   `json:"title"`
	Text         string   `json:"text"`
	Language     string   `json:"language"`
	Status       string   `json:"status"`
	IsHidden     bool     `json:"isHidden"`
	IsProtected  bool     `json:"isProtected"`
	HasPrice     bool     `json:"hasPrice"`
	Collection   int      `json:"collection,omitempty"`
	Description  string   `json:"description,omitempty"`
	Level        int      `json:"level,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Translations []string `json:"translations"`
	Save         bool     `json:"save"`
}

type LessonCreated struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Collection *int   `json:"collection"`
}

// GetLesson fetches the current lesson with all of its paragraphs.
func (c *Client) GetLesson(ctx context.Context) (*Lesson, error) {
	const operation = "get lesson"
	if err := c.requireLesson(operation); err != nil {
		return nil, err
	}

	var lesson Lesson
	req := c.newAPIRequest(ctx, HeaderOptions{})
	url := c.endpoints.editor(c.session.LanguageCode, c.session.LessonID)
	if err := c.call(operation, ErrNotFound, req, http.MethodGet, url, lessonShape, &lesson); err != nil {
		return nil, err
	}

	return &lesson, nil
}

// GetLessonByID makes id the current lesson and fetches it.
func (c *Client) GetLessonByID(ctx context.Context, id int) (*Lesson, error) {
	c.SetLesson(id)
	return c.GetLesson(ctx)
}

// CreateLesson creates a lesson and makes it the current one.
func (c *Client) CreateLesson(ctx context.Context, params LessonParams) (*LessonCreated, error) {
	const operation = "create lesson"
	if params.Language == "" {
		params.Language = c.session.LanguageCode
	}
	if params.Translations == nil {
		params.Translations = []string{}
	}

	var created LessonCreated
	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true}).SetBody(params)
	url := c.endpoints.importLesson(params.Language)
	if err := c.call(operation, ErrCreationFailed, req, http.MethodPost, url, lessonCreatedShape, &created); err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"lessonID": created.ID,
		"title":    created.Title,
	}).Info("Created lesson")
	c.SetLesson(created.ID)

	return &created, nil
}

// DeleteLesson deletes a lesson. The status is not checked; look at
// Response.OK.
func (c *Client) DeleteLesson(ctx context.Context, id int) (*Response, error) {
	req := c.newAPIRequest(ctx, HeaderOptions{IncludeCSRF: true})
	resp, err := c.do("delete lesson", req, http.MethodDelete, c.endpoints.deleteLesson(c.session.LanguageCode, id))
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}
