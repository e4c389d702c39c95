package lingq

import (
	"context"
	"net/http"
)

// Sentences are addressed by their 1-based position in the lesson, not by an
// id. Creating, deleting or breaking a sentence renumbers the ones after it on
// the server; nothing is renumbered here, so fetch the lesson again to see
// the new indices.

type createSentenceRequest struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	After bool   `json:"after"`
}

type sentenceTextRequest struct {
	Text string `json:"text"`
}

type sentenceTimestampRequest struct {
	Timestamp Timestamp `json:"timestamp"`
}

// CreateSentence inserts a sentence into the current lesson. With after unset
// the new sentence takes index and the old occupant moves to index+1;
// otherwise it goes in right after index.
func (c *Client) CreateSentence(ctx context.Context, index int, text string, after bool) (*Sentence, error) {
	const operation = "create sentence"
	if err := c.sentencePreconditions(operation, index); err != nil {
		return nil, err
	}

	var sentence Sentence
	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true}).
		SetBody(createSentenceRequest{Index: index, Text: text, After: after})
	url := c.endpoints.sentences(c.session.LanguageCode, c.session.LessonID)
	if err := c.call(operation, ErrRequestFailed, req, http.MethodPost, url, sentenceShape, &sentence); err != nil {
		return nil, err
	}

	return &sentence, nil
}

func (c *Client) UpdateSentenceText(ctx context.Context, index int, text string) (*Sentence, error) {
	return c.patchSentence(ctx, "update sentence text", index, sentenceTextRequest{Text: text})
}

func (c *Client) UpdateSentenceTimestamp(ctx context.Context, index int, timestamp Timestamp) (*Sentence, error) {
	return c.patchSentence(ctx, "update sentence timestamp", index, sentenceTimestampRequest{Timestamp: timestamp})
}

func (c *Client) patchSentence(ctx context.Context, operation string, index int, body interface{}) (*Sentence, error) {
	if err := c.sentencePreconditions(operation, index); err != nil {
		return nil, err
	}

	var sentence Sentence
	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true}).SetBody(body)
	url := c.endpoints.sentence(c.session.LanguageCode, c.session.LessonID, index)
	if err := c.call(operation, ErrRequestFailed, req, http.MethodPatch, url, sentenceShape, &sentence); err != nil {
		return nil, err
	}

	return &sentence, nil
}

func (c *Client) DeleteSentence(ctx context.Context, index int) (*Response, error) {
	const operation = "delete sentence"
	if err := c.sentencePreconditions(operation, index); err != nil {
		return nil, err
	}

	req := c.newAPIRequest(ctx, HeaderOptions{IncludeCSRF: true})
	return c.callRaw(operation, req, http.MethodDelete, c.endpoints.sentence(c.session.LanguageCode, c.session.LessonID, index))
}

// BreakSentence starts a new paragraph at the sentence.
func (c *Client) BreakSentence(ctx context.Context, index int) (*Response, error) {
	const operation = "break sentence"
	if err := c.sentencePreconditions(operation, index); err != nil {
		return nil, err
	}

	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true})
	return c.callRaw(operation, req, http.MethodPost, c.endpoints.sentenceBreak(c.session.LanguageCode, c.session.LessonID, index))
}

func (c *Client) sentencePreconditions(operation string, index int) error {
	if err := c.requireLesson(operation); err != nil {
		return err
	}

	return checkIndex(operation, index)
}
