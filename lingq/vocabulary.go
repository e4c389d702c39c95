package lingq

import (
	"context"
	"net/http"
)

// Card statuses as the web app shows them. A "known" word is status
// CardLearned with ExtendedStatus set to CardKnown.
const (
	CardNew        = 0
	CardRecognized = 1
	CardFamiliar   = 2
	CardLearned    = 3
	CardKnown      = 4
)

var CardStatusMeanings = map[int]string{
	CardNew:        "New",
	CardRecognized: "Recognized",
	CardFamiliar:   "Familiar",
	CardLearned:    "Learned",
	CardKnown:      "Known",
}

type Hint struct {
	ID     int    `json:"id"`
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

// Card is a LingQ: a term the user has saved, with its SRS state.
type Card struct {
	PK             int    `json:"pk"`
	Term           string `json:"term"`
	Fragment       string `json:"fragment"`
	Status         int    `json:"status"`
	ExtendedStatus *int   `json:"extendedStatus"`
	Hints          []Hint `json:"hints"`
}

type Word struct {
	Text       string `json:"text"`
	Status     string `json:"status"`
	Importance int    `json:"importance"`
	Hints      []Hint `json:"hints"`
}

// LessonWords is what the words endpoint returns for a lesson. Both maps are
// keyed by ids LingQ hands out; they are not positions and the two maps are
// not related by key.
type LessonWords struct {
	Cards map[string]Card `json:"cards"`
	Words map[string]Word `json:"words"`
}

type CardStatusUpdate struct {
	CardID         int  `json:"-"`
	Status         int  `json:"status"`
	ExtendedStatus *int `json:"extendedStatus,omitempty"`
	// Content is sent back unchanged when set, zero included; its meaning
	// is unknown.
	Content *int `json:"content,omitempty"`
}

// GetLessonWords fetches the cards and words of the current lesson.
func (c *Client) GetLessonWords(ctx context.Context) (*LessonWords, error) {
	const operation = "get lesson words"
	if err := c.requireLesson(operation); err != nil {
		return nil, err
	}

	var words LessonWords
	req := c.newAPIRequest(ctx, HeaderOptions{})
	url := c.endpoints.words(c.session.LanguageCode, c.session.LessonID)
	if err := c.call(operation, ErrRequestFailed, req, http.MethodGet, url, lessonWordsShape, &words); err != nil {
		return nil, err
	}

	return &words, nil
}

func (c *Client) UpdateCardStatus(ctx context.Context, update CardStatusUpdate) (*Card, error) {
	const operation = "update card status"

	var card Card
	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true}).SetBody(update)
	url := c.endpoints.card(c.session.LanguageCode, update.CardID)
	if err := c.call(operation, ErrRequestFailed, req, http.MethodPatch, url, cardShape, &card); err != nil {
		return nil, err
	}

	return &card, nil
}
