package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hdxsfx/pkg/sfx"
	"hdxsfx/pkg/sfx/sfxtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
sounds:
  - {name: click, src: click.wav, volume: 60}
  - {name: coin, src: coin.wav}
  - {name: broken, src: missing.wav}
tags:
  - {name: confirm, of: click, volume: 90}
  - {name: orphan, of: nothing}
master_volume: 80
muted: true
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, m.Sounds, 3)
	assert.Equal(t, 60, *m.Sounds[0].Volume)
	assert.Nil(t, m.Sounds[1].Volume)
	assert.Equal(t, "click", m.Tags[0].Of)
	assert.Equal(t, 80, *m.MasterVolume)
	assert.True(t, m.Muted)

	_, err = Parse([]byte("sounds:\n  - {name: x}\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("tags:\n  - {of: x}\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("sounds: [oops"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	src := sfxtest.NewSource(map[string][]byte{
		"sfx/click.wav": []byte("c"),
		"sfx/coin.wav":  []byte("k"),
	})
	rec := &sfxtest.Recorder{}
	mgr := sfx.New(sfxtest.NewEngine(), sfx.WithSource(src), sfx.WithBasePath("sfx/"), sfx.WithDiagnostics(rec))

	err = m.Apply(context.Background(), mgr)
	require.Error(t, err)
	var fe *sfx.FetchError
	assert.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "load broken")

	e, ok := mgr.Entry("confirm")
	require.True(t, ok)
	assert.Equal(t, 90, e.Volume)
	e, _ = mgr.Entry("coin")
	assert.Equal(t, sfx.DefaultVolume, e.Volume)
	_, ok = mgr.Entry("orphan")
	assert.False(t, ok)
	assert.Contains(t, rec.Kinds(), sfx.KindNotFound)

	assert.Equal(t, 80, mgr.MasterVolume())
	assert.True(t, mgr.Muted())
}

func TestApply_CanceledContext(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mgr := sfx.New(sfxtest.NewEngine(), sfx.WithSource(sfxtest.NewSource(nil)))
	err = m.Apply(ctx, mgr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, mgr.Names())
}

func TestRead_AndMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sfx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	m, err := Read(path)
	require.NoError(t, err)

	out, err := m.Marshal()
	require.NoError(t, err)
	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, m, again)

	_, err = Read(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
