package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dpetersen/lingq-api/audio"
	"github.com/dpetersen/lingq-api/harness"
	"github.com/dpetersen/lingq-api/lingq"
	"github.com/dpetersen/lingq-api/scenario"
)

/*

Runs the end-to-end scenario against the real LingQ API, using the cookies of
a logged-in browser session. It creates (and deletes) private, hidden lessons
on that account.

	LINGQ_LANGUAGE=he LINGQ_CSRF_TOKEN=... LINGQ_SESSION_ID=... go run .

Exits 1 if anything failed or was skipped.

*/

func init() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if parsed, err := logrus.ParseLevel(level); err == nil {
			logrus.SetLevel(parsed)
		}
	}
}

func main() {
	config, err := loadConfig(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("Loading configuration")
	}

	client := lingq.NewClient(config.Language, config.LessonID, config.CSRFToken, config.SessionID, lingq.WithHost(config.Host))

	suite := harness.New()
	scenario.Register(suite, client, scenario.Options{
		Language:    config.Language,
		CardID:      config.CardID,
		TTSVoice:    config.TTSVoice,
		Synthesizer: newSynthesizer(config, client),
	})
	if err := suite.Validate(); err != nil {
		logrus.WithError(err).Fatal("Building scenario")
	}

	report := suite.Run(context.Background())

	if config.ReportPath != "" {
		if err := report.WriteFile(config.ReportPath); err != nil {
			logrus.WithError(err).Error("Failed to write report")
		}
	}

	logrus.WithFields(logrus.Fields{
		"passed": len(report.Passed()),
		"failed": len(report.Failed()),
	}).Info("Finished")

	if !report.OK() {
		os.Exit(1)
	}
}

func newSynthesizer(config Config, client *lingq.Client) scenario.Synthesizer {
	switch config.AudioProvider {
	case audioLingQ:
		return audio.NewLingQSynthesizer(client)
	case audioGoogle:
		return audio.NewGoogleSynthesizer(config.Language)
	}

	return nil
}
