package gamelink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModConfig = `<Mods>
  <ConfigItem setting_id="wand_editorWandDepot1" value_string="page-one" />
  <ConfigItem setting_id="wand_editorWandDepot2" value_string="page-two" />
  <ConfigItem setting_id="wand_editorWandDepot4" value_string="orphan" />
  <ConfigItem setting_id="spell_lab_shugged.wand_box_page_max_index" value_string="2" />
  <ConfigItem setting_id="spell_lab_shugged.wand_box_page_1" value_string="lab-1" />
  <ConfigItem setting_id="spell_lab_shugged.wand_box_page_2" value_string="lab-2" />
  <ConfigItem setting_id="spell_lab_saved_wands" value_string="saved" />
  <ConfigItem setting_id="empty" value_string="" />
</Mods>`

func TestReadSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModConfigFile), []byte(sampleModConfig), 0o644))

	s, rep := ReadSettings(dir)
	require.Equal(t, source.Loaded, rep.Status)
	assert.Equal(t, 7, rep.Rows)
	assert.Equal(t, 1, rep.Skipped)

	assert.Equal(t, []string{"page-one", "page-two"}, s.WandEditorPages())

	pages, saved := s.SpellLabPages()
	assert.Equal(t, []string{"lab-1", "lab-2"}, pages)
	assert.Equal(t, "saved", saved)
}

func TestReadSettingsMissingVsMalformed(t *testing.T) {
	dir := t.TempDir()
	_, rep := ReadSettings(dir)
	assert.Equal(t, source.Missing, rep.Status)

	_, rep = ReadSettings("")
	assert.Equal(t, source.Missing, rep.Status)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ModConfigFile), []byte("<Mods><ConfigItem"), 0o644))
	_, rep = ReadSettings(dir)
	assert.Equal(t, source.Malformed, rep.Status)
	assert.Error(t, rep.Err)
}

func TestReadSettingsExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModConfigFile), []byte(sampleModConfig), 0o644))
	t.Setenv("NOITA_TEST_SAVE", dir)

	s, rep := ReadSettings("${NOITA_TEST_SAVE}")
	require.Equal(t, source.Loaded, rep.Status)
	assert.Equal(t, "saved", s[SpellLabSavedWandsKey])
}
