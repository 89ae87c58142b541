package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

const weaponData = `
provider: GameData
collections:
  Weapons:
    - name: Sword
      damage: 12.5
      ammo: Arrows
  Ammos:
    - name: Arrows
      count: 20
`

func writeDataFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	registry := schema.NewRegistry()
	require.NoError(t, registry.Register(schema.NewClass("Weapon").
		Generate("").
		Collection("Weapons").
		Prop("name", schema.Primitive(schema.TypeString)).
		Prop("damage", schema.Primitive(schema.TypeDecimal)).
		Ref("ammo", "Ammo").
		Build()))
	require.NoError(t, registry.Register(schema.NewClass("Ammo").
		Generate("").
		Collection("Ammos").
		Prop("name", schema.Primitive(schema.TypeString)).
		Prop("count", schema.Primitive(schema.TypeInt)).
		Build()))
	return registry
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, "game.yml", weaponData)

	p, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "GameData", p.Name)
	require.Len(t, p.Collections["Weapons"], 1)
	require.Len(t, p.Collections["Ammos"], 1)
	assert.Equal(t, "Sword", p.Collections["Weapons"][0].Fields["name"])
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing provider name", func(t *testing.T) {
		path := writeDataFile(t, dir, "anon.yml", "collections: {}\n")
		_, err := LoadFile(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yml"))
		require.Error(t, err)
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "b.yml", "provider: Second\ncollections: {}\n")
	writeDataFile(t, dir, "a.yaml", "provider: First\ncollections: {}\n")
	writeDataFile(t, dir, "notes.txt", "ignored")

	providers, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, providers, 2)

	// File name order keeps provider registration deterministic
	assert.Equal(t, "First", providers[0].Name)
	assert.Equal(t, "Second", providers[1].Name)
}

func TestLink(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, "game.yml", weaponData)

	p, err := LoadFile(path)
	require.NoError(t, err)

	registry := testRegistry(t)
	require.NoError(t, Link(registry, []*Provider{p}, zap.NewNop()))

	sword := p.Collections["Weapons"][0]
	arrows := p.Collections["Ammos"][0]

	assert.Equal(t, "Weapon", sword.Class)
	assert.Equal(t, "Ammo", arrows.Class)

	// The reference name was replaced by the live instance
	ref, ok := sword.Fields["ammo"].(*Instance)
	require.True(t, ok, "ammo should be linked to a live instance")
	assert.Same(t, arrows, ref)
}

func TestLinkUnresolvedReference(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, "game.yml", `
provider: GameData
collections:
  Weapons:
    - name: Sword
      ammo: Missing
`)

	p, err := LoadFile(path)
	require.NoError(t, err)

	registry := testRegistry(t)
	require.NoError(t, Link(registry, []*Provider{p}, zap.NewNop()))

	// Unresolvable references are left unset, not an error
	assert.Nil(t, p.Collections["Weapons"][0].Fields["ammo"])
}
