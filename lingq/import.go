package lingq

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

/*
The import endpoint takes the same multipart form as the web importer. Every
value is a string:

	title, language, status        from LessonParams
	isHidden, isProtected, hasPrice, save
	                               "true" or "false"
	description, notes
	tags                           comma separated
	translations                   always "[]"
	text                           only when LessonParams.Text is set
	collection, level              only when non-zero

Files go in "file" (lesson text), "audio" and "image".
*/

// ImportFiles are the optional files uploaded alongside an imported lesson.
// When TextPath is set the lesson text is read from it instead of
// LessonParams.Text.
type ImportFiles struct {
	TextPath      string
	AudioPath     string
	ThumbnailPath string
}

// ImportLesson creates a lesson from files the same way the web importer does
// and makes it the current lesson.
func (c *Client) ImportLesson(ctx context.Context, params LessonParams, files ImportFiles) (*LessonCreated, error) {
	const operation = "import lesson"
	if params.Language == "" {
		params.Language = c.session.LanguageCode
	}

	// resty sets the multipart content type itself.
	req := c.newAPIRequest(ctx, HeaderOptions{IncludeCSRF: true}).
		SetFormData(importForm(params))
	if files.TextPath != "" {
		req.SetFile("file", files.TextPath)
	}
	if files.AudioPath != "" {
		req.SetFile("audio", files.AudioPath)
	}
	if files.ThumbnailPath != "" {
		req.SetFile("image", files.ThumbnailPath)
	}

	var created LessonCreated
	url := c.endpoints.importLesson(params.Language)
	if err := c.call(operation, ErrCreationFailed, req, http.MethodPost, url, lessonCreatedShape, &created); err != nil {
		return nil, err
	}

	c.log.WithField("lessonID", created.ID).Info("Imported lesson")
	c.SetLesson(created.ID)

	return &created, nil
}

func importForm(params LessonParams) map[string]string {
	form := map[string]string{
		"title":        params.Title,
		"language":     params.Language,
		"status":       params.Status,
		"isHidden":     strconv.FormatBool(params.IsHidden),
		"isProtected":  strconv.FormatBool(params.IsProtected),
		"hasPrice":     strconv.FormatBool(params.HasPrice),
		"description":  params.Description,
		"tags":         strings.Join(params.Tags, ","),
		"notes":        params.Notes,
		"translations": "[]",
		"save":         strconv.FormatBool(params.Save),
	}
	if params.Text != "" {
		form["text"] = params.Text
	}
	if params.Collection != 0 {
		form["collection"] = strconv.Itoa(params.Collection)
	}
	if params.Level != 0 {
		form["level"] = strconv.Itoa(params.Level)
	}

	return form
}
