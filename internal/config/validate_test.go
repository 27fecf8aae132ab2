package config

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLaunchable(id string) Launchable {
	return Launchable{
		ID:      id,
		Name:    "Launch " + id,
		Icon:    "/usr/share/icons/" + id + ".png",
		Command: "firefox",
		Kind:    KindDirect,
		Enabled: true,
	}
}

func validConfig() Config {
	return Config{
		SchemaVersion: 1,
		Title:         "Test Menu",
		Icon:          "menu-icon",
		Quote:         "quote",
		Launchables:   []Launchable{validLaunchable("browser"), validLaunchable("editor")},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg, errs := Validate(validConfig())
	assert.False(t, errs.HasErrors())
	assert.Len(t, cfg.Launchables, 2)
}

func TestValidate_Idempotent(t *testing.T) {
	raw := validConfig()
	raw.Launchables = append(raw.Launchables, Launchable{
		ID: "bad id!", Name: "Bad", Command: "x", Kind: KindDirect,
	})
	raw.Launchables[0].Icon = "~/icons/browser.png"

	first, errs := Validate(raw)
	assert.True(t, errs.HasErrors())

	second, errs2 := Validate(first)
	assert.False(t, errs2.HasErrors(), "normalized output must re-validate cleanly")
	assert.Equal(t, first, second)
}

func TestValidate_MissingTitleIsFatal(t *testing.T) {
	raw := validConfig()
	raw.Title = "   "
	_, errs := Validate(raw)
	assert.True(t, errs.HasFatal())
}

func TestValidate_SizeLimits(t *testing.T) {
	raw := validConfig()
	raw.Title = strings.Repeat("x", MaxTitleLength+1)
	raw.Quote = strings.Repeat("y", MaxQuoteLength+1)
	_, errs := Validate(raw)
	assert.True(t, errs.HasFatal())
	assert.Len(t, errs, 2)
}

func TestValidate_TooManyLaunchablesIsFatal(t *testing.T) {
	raw := validConfig()
	raw.Launchables = nil
	for i := 0; i <= MaxLaunchables; i++ {
		raw.Launchables = append(raw.Launchables, validLaunchable(fmt.Sprintf("item-%d", i)))
	}
	_, errs := Validate(raw)
	assert.True(t, errs.HasFatal())
}

func TestValidate_PartialFailure(t *testing.T) {
	// One invalid launchable among N valid ones yields N usable entries and
	// exactly one reported finding.
	raw := validConfig()
	broken := validLaunchable("broken")
	broken.Kind = "telepathy"
	raw.Launchables = append(raw.Launchables, broken)

	cfg, errs := Validate(raw)
	assert.Len(t, cfg.Launchables, 2)
	require.Len(t, errs, 1)
	assert.False(t, errs.HasFatal())
	assert.Contains(t, errs[0].Error(), "kind")
}

func TestValidate_DuplicateIDKeepsFirst(t *testing.T) {
	raw := validConfig()
	dup := validLaunchable("browser")
	dup.Name = "Second Browser"
	raw.Launchables = append(raw.Launchables, dup)

	cfg, errs := Validate(raw)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "duplicate")

	got, ok := cfg.LaunchableByID("browser")
	require.True(t, ok)
	assert.Equal(t, "Launch browser", got.Name)
}

func TestValidate_DanglingCategoryRefPromotesToTopLevel(t *testing.T) {
	raw := validConfig()
	raw.Launchables[0].CategoryID = "no-such-category"

	cfg, errs := Validate(raw)
	require.Len(t, errs, 1)
	assert.False(t, errs.HasFatal())

	got, ok := cfg.LaunchableByID(raw.Launchables[0].ID)
	require.True(t, ok)
	assert.Empty(t, got.CategoryID)
	assert.Len(t, cfg.MainLaunchables(), 2)
}

func TestValidate_DanglingMemberDropped(t *testing.T) {
	raw := validConfig()
	raw.Categories = []Category{{
		ID:            "tools",
		Name:          "Tools",
		Icon:          "folder",
		Description:   "tooling",
		LaunchableIDs: []string{"browser", "ghost"},
		Enabled:       true,
	}}

	cfg, errs := Validate(raw)
	require.Len(t, errs, 1)
	cat, ok := cfg.CategoryByID("tools")
	require.True(t, ok)
	assert.Equal(t, []string{"browser"}, cat.LaunchableIDs)
}

func TestValidate_CategoryMembershipHidesFromTopLevel(t *testing.T) {
	raw := validConfig()
	raw.Launchables[1].CategoryID = "tools"
	raw.Categories = []Category{{
		ID: "tools", Name: "Tools", Icon: "folder", Description: "tooling", Enabled: true,
	}}

	cfg, errs := Validate(raw)
	assert.False(t, errs.HasErrors())
	assert.Len(t, cfg.MainLaunchables(), 1)
	assert.Len(t, cfg.CategoryLaunchables("tools"), 1)
}

func TestValidate_SortsByPosition(t *testing.T) {
	raw := validConfig()
	raw.Launchables[0].Position = 5
	raw.Launchables[1].Position = 1

	cfg, _ := Validate(raw)
	assert.Equal(t, "editor", cfg.Launchables[0].ID)
	assert.Equal(t, "browser", cfg.Launchables[1].ID)
}

func TestValidate_IdentifierPattern(t *testing.T) {
	for _, id := range []string{"ok-id_1", "A", "0"} {
		raw := validConfig()
		raw.Launchables[0].ID = id
		_, errs := Validate(raw)
		assert.False(t, errs.HasErrors(), "id %q should be accepted", id)
	}
	for _, id := range []string{"", "has space", "semi;colon", "sl/ash"} {
		raw := validConfig()
		raw.Launchables[0].ID = id
		_, errs := Validate(raw)
		assert.True(t, errs.HasErrors(), "id %q should be rejected", id)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, errs := Validate(*DefaultConfig())
	assert.False(t, errs.HasErrors())
	assert.NotEmpty(t, cfg.Launchables)
}
