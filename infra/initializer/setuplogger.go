package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type levelStyle struct {
	icon  string
	color lipgloss.AdaptiveColor
}

var levelStyles = map[log.Level]levelStyle{
	log.DebugLevel: {"🐛", lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}},
	log.InfoLevel:  {"ℹ️", lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}},
	log.WarnLevel:  {"⚠️", lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}},
	log.ErrorLevel: {"❌", lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}},
}

var formatters = map[string]log.Formatter{
	"json":   log.JSONFormatter,
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
}

// setupLogger builds the process logger from config, installs it as the
// slog default and returns it.
func setupLogger(cfg *config.Log) *slog.Logger {
	return installLogger(os.Stdout, cfg)
}

func installLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text"}
	}
	formatter, ok := formatters[cfg.Format]
	if !ok {
		formatter = log.TextFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(consoleStyles())

	slogger := slog.New(logger)
	slog.SetDefault(slogger)
	return slogger
}

func consoleStyles() *log.Styles {
	styles := log.DefaultStyles()
	for lvl, ls := range levelStyles {
		styles.Levels[lvl] = lipgloss.NewStyle().
			SetString(ls.icon).
			Bold(true).
			Padding(0, 1).
			Foreground(ls.color)
		key := lvl.String()
		styles.Keys[key] = lipgloss.NewStyle().Foreground(ls.color)
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	muted := levelStyles[log.DebugLevel].color
	for _, key := range []string{"prefix", "caller", "time", "request_id"} {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(muted)
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	return styles
}
