package lingq

import (
	"context"
	"net/http"
)

const defaultTTSAppName = "lingq"

type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
	// Language defaults to the session language.
	Language string `json:"language"`
	AppName  string `json:"appName"`
}

// TTSResult describes synthesized speech. Audio is a URL to the file.
type TTSResult struct {
	ID         int         `json:"id"`
	Voice      string      `json:"voice"`
	Text       string      `json:"text"`
	Audio      string      `json:"audio"`
	Timestamps []Timestamp `json:"timestamps"`
}

func (c *Client) GetTTSSpeech(ctx context.Context, request TTSRequest) (*TTSResult, error) {
	const operation = "get tts speech"
	if request.Language == "" {
		request.Language = c.session.LanguageCode
	}
	if request.AppName == "" {
		request.AppName = defaultTTSAppName
	}

	var result TTSResult
	req := c.newAPIRequest(ctx, HeaderOptions{IsPost: true, IncludeCSRF: true}).SetBody(request)
	if err := c.call(operation, ErrRequestFailed, req, http.MethodPost, c.endpoints.tts(), ttsShape, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
