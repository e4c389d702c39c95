package lingq

import (
	"context"
	"net/http"
)

type LessonStats struct {
	ListenTimes  float64 `json:"listenTimes"`
	ReadTimes    float64 `json:"readTimes"`
	CardsCreated int     `json:"cardsCreated"`
}

type StatsKind string

const (
	ReadTimes   StatsKind = "readTimes"
	ListenTimes StatsKind = "listenTimes"
)

// StatsIncrement adds Amount to one of the lesson counters. Source is a free
// form tag the web app uses to say where the increment came from.
type StatsIncrement struct {
	Kind      StatsKind
	Amount    float64
	Automatic bool
	Source    string
}

func (s StatsIncrement) body() map[string]interface{} {
	return map[string]interface{}{
		string(s.Kind): s.Amount,
		"automatic":    s.Automatic,
		"source":       s.Source,
	}
}

func (c *Client) IncrementStats(ctx context.Context, inc StatsIncrement) (*LessonStats, error) {
	operation := "increment " + string(inc.Kind)
	if err := c.requireLesson(operation); err != nil {
		return nil, err
	}

	var stats LessonStats
	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true}).SetBody(inc.body())
	url := c.endpoints.lessonStats(c.session.LanguageCode, c.session.LessonID)
	if err := c.call(operation, ErrRequestFailed, req, http.MethodPost, url, lessonStatsShape, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (c *Client) IncrementReadTimes(ctx context.Context, amount float64, automatic bool, source string) (*LessonStats, error) {
	return c.IncrementStats(ctx, StatsIncrement{Kind: ReadTimes, Amount: amount, Automatic: automatic, Source: source})
}

func (c *Client) IncrementListenTimes(ctx context.Context, amount float64, automatic bool, source string) (*LessonStats, error) {
	return c.IncrementStats(ctx, StatsIncrement{Kind: ListenTimes, Amount: amount, Automatic: automatic, Source: source})
}

type bookmarkRequest struct {
	WordIndex int    `json:"wordIndex"`
	Client    string `json:"client"`
}

// CreateBookmark marks the reading position in the current lesson.
func (c *Client) CreateBookmark(ctx context.Context, wordIndex int, client string) (bool, error) {
	const operation = "create bookmark"
	if err := c.requireLesson(operation); err != nil {
		return false, err
	}

	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true}).
		SetBody(bookmarkRequest{WordIndex: wordIndex, Client: client})
	if _, err := c.callRaw(operation, req, http.MethodPost, c.endpoints.bookmark(c.session.LanguageCode, c.session.LessonID)); err != nil {
		return false, err
	}

	return true, nil
}
