package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is read from flags, then LINGQ_* environment variables, then a .env
// file in the working directory. The CSRF token and session id are the
// csrftoken and wwwlingqcomsa cookies of a logged-in browser.
type Config struct {
	Language      string
	LessonID      int
	CSRFToken     string
	SessionID     string
	Host          string
	CardID        int
	TTSVoice      string
	AudioProvider string
	ReportPath    string
}

const (
	audioNone   = "none"
	audioLingQ  = "lingq"
	audioGoogle = "google"
)

func addFlags(f *pflag.FlagSet) {
	f.String("language", "", "LingQ language code, e.g. he")
	f.Int("lesson", 0, "Lesson to start from; the scenario creates its own")
	f.String("csrf-token", "", "Value of the csrftoken cookie")
	f.String("session-id", "", "Value of the wwwlingqcomsa cookie")
	f.String("host", "https://www.lingq.com", "LingQ host")
	f.Int("card-id", 0, "Existing card to run the card status check against (0 skips it)")
	f.String("tts-voice", "", "Voice for text-to-speech checks")
	f.String("audio-provider", audioNone, "Audio for the import check: none, lingq or google")
	f.String("report", "", "Write a JSON report of the run to this path")
	f.Bool("http-debug", false, "Dump HTTP requests and responses")
}

// loadConfig binds flags and environment into viper and validates the result.
func loadConfig(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("Failed to load .env file")
	}

	flags := pflag.NewFlagSet("lingq-api", pflag.ContinueOnError)
	addFlags(flags)
	if err := flags.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "parsing flags")
	}

	v := viper.New()
	v.SetEnvPrefix("LINGQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, errors.Wrap(err, "binding flags")
	}

	// lingq.NewClient reads this from the global viper.
	viper.Set("lingq.http_debug", v.GetBool("http-debug"))

	config := Config{
		Language:      v.GetString("language"),
		LessonID:      v.GetInt("lesson"),
		CSRFToken:     v.GetString("csrf-token"),
		SessionID:     v.GetString("session-id"),
		Host:          v.GetString("host"),
		CardID:        v.GetInt("card-id"),
		TTSVoice:      v.GetString("tts-voice"),
		AudioProvider: v.GetString("audio-provider"),
		ReportPath:    v.GetString("report"),
	}

	return config, config.validate()
}

func (c Config) validate() error {
	var missing []string
	required := []struct{ name, value string }{
		{"LINGQ_LANGUAGE", c.Language},
		{"LINGQ_CSRF_TOKEN", c.CSRFToken},
		{"LINGQ_SESSION_ID", c.SessionID},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		return errors.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.AudioProvider {
	case audioNone, audioLingQ, audioGoogle:
	default:
		return errors.Errorf("unknown audio provider %q", c.AudioProvider)
	}

	return nil
}
