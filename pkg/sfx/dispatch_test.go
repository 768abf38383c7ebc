package sfx_test

import (
	"context"
	"testing"

	"hdxsfx/pkg/sfx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_EnglishVerbs(t *testing.T) {
	m, eng, _, _ := newManager(t, map[string][]byte{"sounds/x.wav": []byte("x")})
	ctx := context.Background()

	ok, err := m.Call(ctx, "load", "a", "x.wav", "60")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.Call(ctx, "tag", "b", "a")
	require.NoError(t, err)
	e, _ := m.Entry("b")
	assert.Equal(t, sfx.DefaultVolume, e.Volume)

	_, err = m.Call(ctx, "setMasterVolume", "50")
	require.NoError(t, err)
	assert.Equal(t, 50, m.MasterVolume())

	_, err = m.Call(ctx, "play", "a", "40")
	require.NoError(t, err)
	assert.Equal(t, sfx.Gain(50, 40), eng.Last().Gain)

	_, err = m.Call(ctx, "stop", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, eng.Last().Stops)

	_, err = m.Call(ctx, "toggleMute")
	require.NoError(t, err)
	assert.True(t, m.Muted())
	_, err = m.Call(ctx, "unmute")
	require.NoError(t, err)
	assert.False(t, m.Muted())
	_, err = m.Call(ctx, "mute")
	require.NoError(t, err)
	assert.True(t, m.Muted())
}

func TestCall_TurkishVerbs(t *testing.T) {
	m, _, _, rec := newManager(t, map[string][]byte{"sounds/x.wav": []byte("x")}, sfx.WithLocale(sfx.Turkish))
	ctx := context.Background()

	_, err := m.Call(ctx, "sesYukle", "a", "x.wav")
	require.NoError(t, err)
	_, err = m.Call(ctx, "sesEtiket", "b", "a", "30")
	require.NoError(t, err)

	e, ok := m.Entry("b")
	require.True(t, ok)
	assert.Equal(t, 30, e.Volume)

	ok, err = m.Call(ctx, "load", "c", "x.wav")
	require.NoError(t, err)
	assert.False(t, ok, "english load is not a turkish verb")

	d, _ := rec.Last()
	assert.Equal(t, sfx.KindUnknownOperation, d.Kind)
	assert.Equal(t, `Ses "load" yüklenmedi veya mevcut değil.`, d.Message)

	m.SetMasterVolume(30)
	d, _ = rec.Last()
	assert.Equal(t, "Genel ses seviyesi ayarlandı: %30", d.Message)
}

func TestCall_SoundNamePlaysItself(t *testing.T) {
	m, eng, _, _ := newManager(t, map[string][]byte{"sounds/x.wav": []byte("x")})
	ctx := context.Background()
	require.NoError(t, m.Load(ctx, "coin", "x.wav", 80))

	ok, err := m.Call(ctx, "coin")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.8, eng.Last().Gain)

	_, err = m.Call(ctx, "coin", "20")
	require.NoError(t, err)
	assert.Equal(t, sfx.Gain(100, 20), eng.Last().Gain)
}

func TestCall_UnknownVerbIsReported(t *testing.T) {
	m, eng, _, rec := newManager(t, nil)

	ok, err := m.Call(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, eng.Instances)

	d, _ := rec.Last()
	assert.Equal(t, sfx.KindUnknownOperation, d.Kind)
	assert.Equal(t, `Sound "nonexistent" is not loaded or does not exist.`, d.Message)
}

func TestCall_UsageErrors(t *testing.T) {
	m, _, _, _ := newManager(t, nil)
	ctx := context.Background()

	tests := []struct {
		verb string
		args []string
	}{
		{"load", []string{"a"}},
		{"load", []string{"a", "b", "loud"}},
		{"tag", nil},
		{"play", nil},
		{"play", []string{"a", "1", "2"}},
		{"stop", nil},
		{"setMasterVolume", nil},
		{"setMasterVolume", []string{"half"}},
		{"mute", []string{"now"}},
	}
	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			_, err := m.Call(ctx, tt.verb, tt.args...)
			assert.ErrorIs(t, err, sfx.ErrUsage)
		})
	}
}

func TestCall_LoadErrorPropagates(t *testing.T) {
	m, _, _, _ := newManager(t, nil)

	ok, err := m.Call(context.Background(), "load", "a", "missing.wav")

	assert.False(t, ok)
	var fe *sfx.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "sounds/missing.wav", fe.Path)
}

func TestShortcut(t *testing.T) {
	m, eng, _, rec := newManager(t, map[string][]byte{"sounds/x.wav": []byte("x")})
	require.NoError(t, m.Load(context.Background(), "a", "x.wav", 50))
	m.Tag("b", "a", 10)

	assert.True(t, m.Shortcut("a")())
	assert.Equal(t, 0.5, eng.Last().Gain)
	assert.True(t, m.Shortcut("b")(90))
	assert.Equal(t, sfx.Gain(100, 90), eng.Last().Gain)

	assert.False(t, m.Shortcut("zzz")())
	d, _ := rec.Last()
	assert.Equal(t, sfx.KindUnknownOperation, d.Kind)
}

func TestShortcut_OnlyForLoadedName(t *testing.T) {
	m, eng, _, rec := newManager(t, map[string][]byte{"sounds/x.wav": []byte("x")})
	ctx := context.Background()
	require.NoError(t, m.Load(ctx, "a", "x.wav"))

	ok, err := m.Call(ctx, "x.wav")
	require.NoError(t, err)
	assert.False(t, ok)
	d, _ := rec.Last()
	assert.Equal(t, sfx.KindUnknownOperation, d.Kind)
	assert.Empty(t, eng.Audible())

	// the key stays registered and playable by Play
	assert.True(t, m.Play("x.wav"))

	require.NoError(t, m.Load(ctx, "x.wav", "x.wav"))
	ok, err = m.Call(ctx, "x.wav")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocaleByName(t *testing.T) {
	l, ok := sfx.LocaleByName("TR")
	require.True(t, ok)
	assert.Equal(t, "tr", l.Name)

	l, ok = sfx.LocaleByName("")
	require.True(t, ok)
	assert.Equal(t, "en", l.Name)

	_, ok = sfx.LocaleByName("fr")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{
		"sesYukle", "sesEtiket", "play", "stop", "setMasterVolume", "mute", "unmute", "toggleMute",
	}, sfx.Turkish.Verbs())
}
