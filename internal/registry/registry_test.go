package registry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// techStub marks a fixed set of names as tech-available.
type techStub map[string]bool

func (s techStub) Available(name string) bool { return s[name] }

func TestFind_KnownNameCountsUsage(t *testing.T) {
	t.Parallel()
	r := New(Ship, []string{"Llama", "Lancelot"}, nil)

	assert.True(t, r.Find("Llama"))
	assert.Equal(t, []string{"Lancelot"}, r.Unused())
}

func TestFind_UnknownNameHasNoEffect(t *testing.T) {
	t.Parallel()
	r := New(Ship, []string{"Llama"}, nil)

	assert.False(t, r.Find("Hawking"))
	assert.Equal(t, []string{"Llama"}, r.Unused())
}

func TestFind_UsageIsMonotonic(t *testing.T) {
	t.Parallel()
	r := New(Fleet, []string{"Pirate"}, nil)

	require.True(t, r.Find("Pirate"))
	for range 5 {
		require.True(t, r.Find("Pirate"))
		assert.NotContains(t, r.Unused(), "Pirate")
	}
}

func TestSetUnknown_RemovesFromUnused(t *testing.T) {
	t.Parallel()
	r := New(Outfit, []string{"Laser Cannon", "Ion Cannon"}, nil)

	r.SetUnknown("Ion Cannon")
	assert.Equal(t, []string{"Laser Cannon"}, r.Unused())
}

func TestSetUnknown_UnknownNameIsNoop(t *testing.T) {
	t.Parallel()
	r := New(Outfit, []string{"Laser Cannon"}, nil)

	r.SetUnknown("Plasma Cannon")
	assert.Equal(t, []string{"Laser Cannon"}, r.Unused())
}

func TestNew_DuplicateNamesCollapse(t *testing.T) {
	t.Parallel()
	r := New(Unidiff, []string{"flf_dead", "flf_dead"}, nil)

	assert.Equal(t, 1, r.Len())
	require.True(t, r.Find("flf_dead"))
	assert.Empty(t, r.Unused())
}

func TestUnused_SortedAndRepeatable(t *testing.T) {
	t.Parallel()
	r := New(Ship, []string{"Vendetta", "Llama", "Admonisher"}, nil)

	want := []string{"Admonisher", "Llama", "Vendetta"}
	assert.Equal(t, want, r.Unused())
	assert.Equal(t, want, r.Unused())
}

func TestMissingTech_UsesFilterAtConstruction(t *testing.T) {
	t.Parallel()
	r := New(Ship, []string{"Llama", "Lancelot", "Goddard"}, techStub{"Llama": true})

	assert.Equal(t, []string{"Goddard", "Lancelot"}, r.MissingTech())
}

func TestMissingTech_NilFilterMeansNoReport(t *testing.T) {
	t.Parallel()
	r := New(Fleet, []string{"Pirate"}, nil)
	assert.Nil(t, r.MissingTech())
}

func TestShowMissingTech_Output(t *testing.T) {
	t.Parallel()
	r := New(Outfit, []string{"Laser Cannon"}, techStub{})

	var buf bytes.Buffer
	r.ShowMissingTech(&buf)
	assert.Equal(t, "outfit 'Laser Cannon' is not available in any tech group\n", buf.String())
}

func TestShowUnused_Output(t *testing.T) {
	t.Parallel()
	r := New(Fleet, []string{"Pirate", "Trader"}, nil)
	require.True(t, r.Find("Trader"))

	var buf bytes.Buffer
	r.ShowUnused(&buf)
	assert.Equal(t, "fleet 'Pirate' is never used\n", buf.String())
}
