package battle

import (
	"log"

	"github.com/KirkDiggler/battle-engine/internal/events"
	"github.com/KirkDiggler/battle-engine/internal/locale"
)

// Narrator localizes message keys and publishes them as narration lines.
// It implements effects.Narrator.
type Narrator struct {
	bus     *events.Bus
	printer *locale.Printer
}

// NewNarrator creates a narrator. printer defaults to English.
func NewNarrator(bus *events.Bus, printer *locale.Printer) *Narrator {
	if bus == nil {
		panic("battle: bus is required")
	}
	if printer == nil {
		printer = locale.NewPrinter("en")
	}
	return &Narrator{bus: bus, printer: printer}
}

// Narrate publishes the localized text of key
func (n *Narrator) Narrate(key string, args ...any) {
	n.Line(n.printer.Sprintf(key, args...))
}

// Line publishes text that is already localized
func (n *Narrator) Line(text string) {
	if text == "" {
		return
	}
	log.Printf("[BATTLE] %s", text)
	events.MustPublish(n.bus, events.Narration, text)
}
