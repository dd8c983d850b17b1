package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := New([]string{"en", "es", "ca"})
	require.NoError(t, err)
	return tr
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]string{"not a language!"})
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	tr := newTestTranslator(t)

	tag, ok := tr.Match("es")
	require.True(t, ok)
	assert.Equal(t, "es", Locale(tag))

	tag, ok = tr.Match("ca")
	require.True(t, ok)
	assert.Equal(t, "ca", Locale(tag))

	_, ok = tr.Match("ja")
	assert.False(t, ok)

	_, ok = tr.Match("%%")
	assert.False(t, ok)
}

func TestPrinter(t *testing.T) {
	tr := newTestTranslator(t)

	assert.Equal(t, "Add a comment to publish.", tr.Printer(language.English).Sprintf(MsgEmptyComment))
	assert.Equal(t, "Añada un comentario para publicar.", tr.Printer(language.Spanish).Sprintf(MsgEmptyComment))
	assert.Equal(t, "La mida de la imatge és superior a 1 MB.", tr.Printer(language.Catalan).Sprintf(MsgImageTooLarge, 1))
}

func TestLanguageContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, language.English, LanguageFrom(ctx))

	ctx = WithLanguage(ctx, language.Spanish)
	assert.Equal(t, language.Spanish, LanguageFrom(ctx))
}

func TestEveryMessageTranslated(t *testing.T) {
	en := translations[language.English]
	for tag, msgs := range translations {
		for key := range en {
			assert.Contains(t, msgs, key, "%s is missing %q", tag, key)
		}
	}
}
