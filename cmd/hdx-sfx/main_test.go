package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"hdxsfx/internal/container"
	"hdxsfx/internal/security"
	"hdxsfx/pkg/audioengine"
	"hdxsfx/pkg/sfx"
	"hdxsfx/pkg/sfx/sfxtest"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSine(t *testing.T, path string, frames int) []byte {
	t.Helper()
	const rate = 48000
	data := make([]int, 0, frames*2)
	for i := 0; i < frames; i++ {
		v := int(12000 * math.Sin(2*math.Pi*440*float64(i)/rate))
		data = append(data, v, v)
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, rate, 16, 2, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	return out
}

func consoleManager(t *testing.T) (*sfx.Manager, *sfxtest.Engine) {
	t.Helper()
	eng := sfxtest.NewEngine()
	src := sfxtest.NewSource(map[string][]byte{"click.wav": []byte("click")})
	return sfx.New(eng, sfx.WithSource(src)), eng
}

func TestRunLine_DrivesManager(t *testing.T) {
	mgr, eng := consoleManager(t)
	ctx := context.Background()
	var out bytes.Buffer

	assert.False(t, runLine(ctx, mgr, &out, "load click click.wav 70"))
	assert.False(t, runLine(ctx, mgr, &out, "tag ui click 30"))
	assert.False(t, runLine(ctx, mgr, &out, "ui"))
	assert.Empty(t, out.String())

	require.Len(t, eng.Audible(), 1)
	assert.InDelta(t, 0.3, eng.Last().Gain, 1e-9)

	runLine(ctx, mgr, &out, "list")
	assert.Contains(t, out.String(), "click")
	assert.Contains(t, out.String(), " 30%")

	out.Reset()
	runLine(ctx, mgr, &out, "status")
	var st sfx.Status
	require.NoError(t, json.Unmarshal(out.Bytes(), &st))
	assert.Equal(t, 100, st.MasterVolume)
}

func TestRunLine_ErrorsAndQuit(t *testing.T) {
	mgr, _ := consoleManager(t)
	ctx := context.Background()
	var out bytes.Buffer

	assert.False(t, runLine(ctx, mgr, &out, "   "))
	assert.Empty(t, out.String())

	runLine(ctx, mgr, &out, "setMasterVolume loud")
	assert.Contains(t, out.String(), "error:")

	out.Reset()
	runLine(ctx, mgr, &out, "help")
	assert.Contains(t, out.String(), "setMasterVolume")

	assert.True(t, runLine(ctx, mgr, &out, "quit"))
	assert.True(t, runLine(ctx, mgr, &out, "exit"))
}

func TestCompletions_IncludeNames(t *testing.T) {
	mgr, _ := consoleManager(t)
	require.NoError(t, mgr.Load(context.Background(), "click", "click.wav"))

	c := completions(mgr)
	assert.Contains(t, c, "click")
	assert.Contains(t, c, "toggleMute")
	assert.Contains(t, c, "status")
	assert.IsNonDecreasing(t, c)
}

func TestApplyManifest(t *testing.T) {
	mgr, _ := consoleManager(t)
	path := filepath.Join(t.TempDir(), "sfx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sounds:
  - name: click
    src: click.wav
    volume: 60
  - name: broken
    src: missing.wav
tags:
  - name: soft
    of: click
    volume: 20
master_volume: 40
`), 0o644))

	require.NoError(t, applyManifest(context.Background(), mgr, path))

	assert.ElementsMatch(t, []string{"click", "click.wav", "soft"}, mgr.Names())
	assert.Equal(t, 40, mgr.MasterVolume())
	assert.NoError(t, applyManifest(context.Background(), mgr, ""))
	assert.Error(t, applyManifest(context.Background(), mgr, filepath.Join(t.TempDir(), "none.yaml")))
}

func TestCollectSounds_SkipsUnknown(t *testing.T) {
	dir := t.TempDir()
	writeSine(t, filepath.Join(dir, "ui", "click.wav"), 960)
	writeSine(t, filepath.Join(dir, "boom.wav"), 960)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := collectSounds(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"boom.wav", "ui/click.wav"}, files)
}

func TestPackFiles_Plain(t *testing.T) {
	dir := t.TempDir()
	raw := writeSine(t, filepath.Join(dir, "ui", "click.wav"), 960)
	files := []string{"ui/click.wav"}

	var ticks int
	bank, m, err := packFiles(context.Background(), packOptions{Src: dir, Name: "ui", Workers: 2}, files, func() { ticks++ })
	require.NoError(t, err)

	assert.Equal(t, 1, ticks)
	assert.False(t, bank.Sealed())
	got, ok := bank.Get("ui/click.wav")
	require.True(t, ok)
	assert.Equal(t, raw, got)

	require.Len(t, m.Sounds, 1)
	assert.Equal(t, "ui/click", m.Sounds[0].Name)
	assert.Equal(t, "ui/click.wav", m.Sounds[0].Src)
}

func TestPackFiles_OpusSealedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeSine(t, filepath.Join(dir, "a.wav"), 4800)
	writeSine(t, filepath.Join(dir, "b.wav"), 4800)

	bank, _, err := packFiles(context.Background(), packOptions{
		Src: dir, Name: "set", Passphrase: "pw", Opus: true, Workers: 4,
	}, []string{"a.wav", "b.wav"}, nil)
	require.NoError(t, err)
	require.True(t, bank.Sealed())

	var buf bytes.Buffer
	require.NoError(t, container.WriteBank(&buf, bank))
	back, err := container.ReadBank(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.wav", "b.wav"}, back.Keys())

	enc, ok := back.Get("a.wav")
	require.True(t, ok)
	plain, err := security.Decrypt(enc, security.DeriveKey("pw", back.Salt))
	require.NoError(t, err)
	kind, err := audioengine.Sniff(plain)
	require.NoError(t, err)
	assert.Equal(t, audioengine.KindOpus, kind)
}

func TestPackFiles_RejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("not audio"), 0o644))

	_, _, err := packFiles(context.Background(), packOptions{Src: dir, Workers: 1}, []string{"bad.wav"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.wav")
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeSine(t, path, 24000)

	var out bytes.Buffer
	require.NoError(t, analyzeFile(&out, path, true, dir))

	var res struct {
		File     string  `json:"file"`
		Format   string  `json:"format"`
		Duration float64 `json:"duration_s"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, path, res.File)
	assert.Equal(t, "wav", res.Format)
	assert.InDelta(t, 0.5, res.Duration, 1e-6)
	assert.FileExists(t, filepath.Join(dir, "tone.png"))

	out.Reset()
	require.NoError(t, analyzeFile(&out, path, false, ""))
	assert.Contains(t, out.String(), "fingerprint : HDXS-")
}

func TestSealUnsealFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.wav")
	raw := writeSine(t, in, 480)
	sealed := filepath.Join(dir, "a.sealed")
	back := filepath.Join(dir, "b.wav")

	require.NoError(t, sealFile(in, sealed, "pw"))
	data, err := os.ReadFile(sealed)
	require.NoError(t, err)
	assert.True(t, security.IsSealed(data))
	assert.Error(t, sealFile(sealed, filepath.Join(dir, "twice"), "pw"))

	require.NoError(t, unsealFile(sealed, back, "pw"))
	got, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	assert.Error(t, unsealFile(sealed, back, "wrong"))
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, "PACKING", "sounds", 2)
	p.Add(1)
	p.Add(1)
	assert.Contains(t, out.String(), "50% (1/2 sounds)")
	assert.Contains(t, out.String(), "100% (2/2 sounds)\n")
}
