package notify

import (
	internal_i18n "github.com/Xenn-00/warteschlangen-meister/internal/i18n"
	"github.com/rs/zerolog/log"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier nimmt Hinweise an die Bedienperson entgegen. Jede Ursache erzeugt
// genau eine Notice; Wiederholungen derselben Ursache sind Sache des Aufrufers.
type Notifier interface {
	Notify(level Level, messageKey string, params map[string]any)
}

// LogNotifier löst Message-Keys über den i18n-Katalog auf und schreibt sie
// ins strukturierte Log. Eine Render-Schicht kann Notifier anders implementieren.
type LogNotifier struct {
	i18n internal_i18n.Service
	lang string
}

func NewLogNotifier(i18n internal_i18n.Service, lang string) *LogNotifier {
	if lang == "" {
		lang = "en"
	}
	return &LogNotifier{i18n: i18n, lang: lang}
}

func (n *LogNotifier) Notify(level Level, messageKey string, params map[string]any) {
	msg := n.i18n.T(n.lang, messageKey, params)

	switch level {
	case LevelError:
		log.Error().Str("notice", messageKey).Msg(msg)
	case LevelWarning:
		log.Warn().Str("notice", messageKey).Msg(msg)
	default:
		log.Info().Str("notice", messageKey).Msg(msg)
	}
}
