package lingq

import (
	"fmt"
	"net/url"
)

// This API is totally undocumented. The URLs below were copied out of the
// requests the web app makes (developer tools in Chrome). Most lesson-scoped
// calls hang off the v3 lesson URL, but a few live elsewhere, some still on
// v2, and have to be spelled out individually.

// LessonDeleteContext is sent as part of the lesson delete URL. The web app
// always sends the same value and nobody knows what it means.
const LessonDeleteContext = 1

type endpoints struct {
	host string
}

func (e endpoints) referer(lang string) string {
	return fmt.Sprintf("%s/en/learn/%s/web/library", e.host, url.PathEscape(lang))
}

func (e endpoints) lesson(lang string, lessonID int) string {
	return fmt.Sprintf("%s/api/v3/%s/lessons/%d", e.host, url.PathEscape(lang), lessonID)
}

func (e endpoints) editor(lang string, lessonID int) string {
	return e.lesson(lang, lessonID) + "/editor/"
}

func (e endpoints) words(lang string, lessonID int) string {
	return e.lesson(lang, lessonID) + "/words/"
}

func (e endpoints) sentences(lang string, lessonID int) string {
	return e.lesson(lang, lessonID) + "/sentences/"
}

func (e endpoints) sentence(lang string, lessonID, index int) string {
	return fmt.Sprintf("%s%d/", e.sentences(lang, lessonID), index)
}

func (e endpoints) sentenceBreak(lang string, lessonID, index int) string {
	return e.sentence(lang, lessonID, index) + "break/"
}

func (e endpoints) importLesson(lang string) string {
	return fmt.Sprintf("%s/api/v3/%s/lessons/import/", e.host, url.PathEscape(lang))
}

func (e endpoints) deleteLesson(lang string, lessonID int) string {
	return fmt.Sprintf("%s/api/v2/%s/lessons/%d/context/%d/", e.host, url.PathEscape(lang), lessonID, LessonDeleteContext)
}

func (e endpoints) lessonStats(lang string, lessonID int) string {
	return fmt.Sprintf("%s/api/v2/%s/lessons/%d/stats/", e.host, url.PathEscape(lang), lessonID)
}

func (e endpoints) card(lang string, cardID int) string {
	return fmt.Sprintf("%s/api/v3/%s/cards/%d/", e.host, url.PathEscape(lang), cardID)
}

func (e endpoints) bookmark(lang string, lessonID int) string {
	return fmt.Sprintf("%s/api/v2/%s/lessons/%d/bookmark/", e.host, url.PathEscape(lang), lessonID)
}

func (e endpoints) tts() string {
	return e.host + "/api/v2/tts/"
}
