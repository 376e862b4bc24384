package locale_test

import (
	"testing"

	"github.com/KirkDiggler/battle-engine/internal/locale"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestPrinter_English(t *testing.T) {
	p := locale.NewPrinter("en-US")
	assert.Equal(t, language.English, p.Tag())
	assert.Equal(t, "Slime took 22 damage!", p.Sprintf(locale.MsgTookDamage, "Slime", 22))
}

func TestPrinter_Spanish(t *testing.T) {
	p := locale.NewPrinter("es-MX")
	assert.Equal(t, language.Spanish, p.Tag())
	assert.Equal(t, "¡Slime se debilitó!", p.Sprintf(locale.MsgFainted, "Slime"))
}

func TestPrinter_FallsBackToEnglish(t *testing.T) {
	for _, loc := range []string{"", "xx", "ja-JP"} {
		p := locale.NewPrinter(loc)
		assert.Equal(t, "A critical hit!", p.Sprintf(locale.MsgCritical), "locale %q", loc)
	}
}

func TestPrinter_UnknownKeyIsFormat(t *testing.T) {
	p := locale.NewPrinter("es")
	assert.Equal(t, "Hero is burned!", p.Sprintf("%s is burned!", "Hero"))
}
