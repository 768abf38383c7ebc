package sfx_test

import (
	"testing"

	"hdxsfx/pkg/sfx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStop_HaltsOnce(t *testing.T) {
	m, eng, _ := loaded(t)
	m.Play("a")
	inst := eng.Last()

	assert.True(t, m.Stop("a"))
	assert.Equal(t, 1, inst.Stops)
	_, ok := m.Playing("a")
	assert.False(t, ok)

	assert.False(t, m.Stop("a"))
	assert.Equal(t, 1, inst.Stops)
}

func TestStop_UntrackedIsNoop(t *testing.T) {
	m, _, rec := loaded(t)

	assert.False(t, m.Stop("a"))
	assert.False(t, m.Stop("never-registered"))
	assert.Empty(t, rec.Kinds())
}

func TestStop_StoppedInstanceNeverCompletes(t *testing.T) {
	m, eng, _ := loaded(t)
	m.Play("a")
	first := eng.Last()
	m.Stop("a")
	m.Play("a")

	eng.Finish(first)

	_, ok := m.Playing("a")
	assert.True(t, ok)
}

func TestSetMasterVolume_Clamps(t *testing.T) {
	m, _, rec := loaded(t)

	assert.Equal(t, 100, m.SetMasterVolume(150))
	assert.Equal(t, 100, m.MasterVolume())
	assert.Equal(t, 0, m.SetMasterVolume(-10))
	assert.Equal(t, 0, m.MasterVolume())
	assert.Equal(t, 42, m.SetMasterVolume(42))

	d, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, sfx.KindMasterVolume, d.Kind)
	assert.Equal(t, 42, d.Value)
	assert.Equal(t, "Global volume set to: 42%", d.Message)
}

func TestSetMasterVolume_AppliesToLaterPlaysOnly(t *testing.T) {
	m, eng, _ := loaded(t)
	m.Play("a")
	before := eng.Last()

	m.SetMasterVolume(25)
	m.Play("a")

	assert.Equal(t, sfx.Gain(100, 80), before.Gain)
	assert.Equal(t, sfx.Gain(25, 80), eng.Last().Gain)
}

func TestMute_GatesPlay(t *testing.T) {
	m, eng, rec := loaded(t)

	m.Mute()
	assert.True(t, m.Muted())
	assert.False(t, m.Play("a"))
	assert.Empty(t, eng.Audible())
	assert.Equal(t, sfx.KindSuppressed, rec.Kinds()[len(rec.Kinds())-1])

	m.Unmute()
	assert.True(t, m.Play("a"))
	assert.Len(t, eng.Audible(), 1)
}

func TestMute_DoesNotStopRunningInstances(t *testing.T) {
	m, eng, _ := loaded(t)
	m.Play("a")

	m.Mute()

	assert.Zero(t, eng.Last().Stops)
	_, ok := m.Playing("a")
	assert.True(t, ok)
}

func TestToggleMute(t *testing.T) {
	m, _, rec := loaded(t)

	assert.True(t, m.ToggleMute())
	assert.True(t, m.Muted())
	d, _ := rec.Last()
	assert.Equal(t, "All sounds muted", d.Message)

	assert.False(t, m.ToggleMute())
	assert.False(t, m.Muted())
	d, _ = rec.Last()
	assert.Equal(t, "All sounds unmuted", d.Message)
}

func TestSnapshot(t *testing.T) {
	m, _, _ := loaded(t)
	m.Tag("b", "a", 20)
	m.Play("b")
	m.SetMasterVolume(70)

	st := m.Snapshot()

	assert.Equal(t, 70, st.MasterVolume)
	assert.False(t, st.Muted)
	assert.True(t, st.Activated)
	require.Len(t, st.Sounds, 3)
	assert.Equal(t, "a", st.Sounds[0].Name)
	assert.False(t, st.Sounds[0].Playing)
	assert.Equal(t, "b", st.Sounds[1].Name)
	assert.True(t, st.Sounds[1].Playing)
	assert.NotEmpty(t, st.Sounds[1].Instance)
	assert.Equal(t, "x.wav", st.Sounds[2].Name)
}
