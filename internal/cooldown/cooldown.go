package cooldown

import (
	"math"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
)

// DefaultHours ist die einzige Quelle für die Cooldown-Konstante. Konsole
// (optimistische Vorprüfung) und Server/Worker (autoritative Prüfung) importieren
// beide dieses Paket; die serverseitige Entscheidung gewinnt immer (Clock-Skew).
const DefaultHours = 24

// Evaluate berechnet den Cooldown-Zustand aus dem letzten Sendezeitpunkt.
// lastSentAt == nil bedeutet: noch nie erinnert, kein Cooldown.
func Evaluate(lastSentAt *time.Time, now time.Time, hours int) entity.CooldownState {
	if lastSentAt == nil {
		return entity.CooldownState{IsActive: false, HoursRemaining: 0}
	}

	hoursSince := now.Sub(*lastSentAt).Hours()
	if hoursSince >= float64(hours) {
		return entity.CooldownState{IsActive: false, HoursRemaining: 0}
	}

	remaining := int(math.Ceil(float64(hours) - hoursSince))
	if remaining < 0 {
		remaining = 0
	}

	return entity.CooldownState{IsActive: true, HoursRemaining: remaining}
}
