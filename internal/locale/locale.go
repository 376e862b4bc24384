// Package locale formats narration and failure messages for the configured language.
package locale

import (
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message. The English text doubles as the key.
type Key = string

// Message keys. Arguments are documented in order.
const (
	// entity name, spell name
	MsgUsedSpell Key = "%s used %s!"
	// entity name
	MsgNotEnoughMP Key = "%s doesn't have enough MP!"
	// entity name
	MsgCannotCast Key = "%s can't use that right now!"
	// user name
	MsgMissed Key = "%s's attack missed!"
	// target name
	MsgDodged Key = "%s dodged the attack!"
	MsgCritical Key = "A critical hit!"
	// target name, damage
	MsgTookDamage Key = "%s took %d damage!"
	// hit count
	MsgHitTimes Key = "Hit %d time(s)!"
	MsgButFailed Key = "But it failed!"
	// entity name
	MsgFainted Key = "%s fainted!"
	// opponent name
	MsgEncounter Key = "A wild %s appeared!"
	MsgBattleLost Key = "Your party was defeated..."
	MsgNoTarget Key = "But there was no target..."
	// entity name
	MsgCannotMove Key = "%s can't move!"
	// turn number
	MsgTurn Key = "Turn %d"
)

// Effect narration keys, referenced by design data
const (
	MsgPoisoned   Key = "%s was poisoned!"
	MsgPoisonHurt Key = "%s is hurt by poison!"
	MsgDrowsy     Key = "%s grew drowsy..."
	MsgFellAsleep Key = "%s fell asleep!"
	MsgFastAsleep Key = "%s is fast asleep."
	MsgWokeUp     Key = "%s woke up!"
	MsgGuarding   Key = "%s braced itself!"
	MsgGuardDown  Key = "%s lowered its guard."
	MsgAttackRose Key = "%s's attack rose!"
	MsgRegen      Key = "%s restored some HP!"
	MsgBristled   Key = "%s bristled with spines!"
	MsgPricked    Key = "%s was hurt by spines!"
)

var supported = []language.Tag{
	language.English,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

var translations = map[language.Tag]map[Key]string{
	language.English: {},
	language.Spanish: {
		MsgUsedSpell:   "¡%s usó %s!",
		MsgNotEnoughMP: "¡%s no tiene suficientes PM!",
		MsgCannotCast:  "¡%s no puede usar eso ahora!",
		MsgMissed:      "¡El ataque de %s falló!",
		MsgDodged:      "¡%s esquivó el ataque!",
		MsgCritical:    "¡Un golpe crítico!",
		MsgTookDamage:  "¡%s recibió %d de daño!",
		MsgHitTimes:    "¡Golpeó %d vez/veces!",
		MsgButFailed:   "¡Pero falló!",
		MsgFainted:     "¡%s se debilitó!",
		MsgEncounter:   "¡Apareció un %s salvaje!",
		MsgBattleLost:  "Tu equipo fue derrotado...",
		MsgNoTarget:    "Pero no había objetivo...",
		MsgCannotMove:  "¡%s no puede moverse!",
		MsgTurn:        "Turno %d",
		MsgPoisoned:    "¡%s fue envenenado!",
		MsgPoisonHurt:  "¡El veneno daña a %s!",
		MsgDrowsy:      "%s tiene sueño...",
		MsgFellAsleep:  "¡%s se durmió!",
		MsgFastAsleep:  "%s está profundamente dormido.",
		MsgWokeUp:      "¡%s se despertó!",
		MsgGuarding:    "¡%s se puso en guardia!",
		MsgGuardDown:   "%s bajó la guardia.",
		MsgAttackRose:  "¡El ataque de %s subió!",
		MsgRegen:       "¡%s recuperó algo de PV!",
		MsgBristled:    "¡%s erizó sus púas!",
		MsgPricked:     "¡Las púas dañaron a %s!",
	},
}

var builder = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := b.SetString(tag, key, text); err != nil {
				log.Printf("[LOCALE] failed to register %q for %s: %v", key, tag, err)
			}
		}
	}
	return b
}

// Printer formats messages in one language
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewPrinter returns a printer for the best supported match of locale.
// Unknown or malformed locales fall back to English.
func NewPrinter(locale string) *Printer {
	tag, _ := language.MatchStrings(matcher, locale)
	base, _ := tag.Base()
	for _, s := range supported {
		if sb, _ := s.Base(); sb == base {
			tag = s
			break
		}
	}
	return &Printer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// Tag returns the resolved language
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Sprintf formats key with args. Keys without a translation are used as the format.
func (p *Printer) Sprintf(key Key, args ...any) string {
	return p.printer.Sprintf(key, args...)
}
