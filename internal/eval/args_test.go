package eval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func indexOf(args []string, v string) int {
	for i, a := range args {
		if a == v {
			return i
		}
	}
	return -1
}

func TestFormatNumberNegativePrefix(t *testing.T) {
	assert.Equal(t, ".-12", FormatNumber(-12))
	assert.Equal(t, ".-0.5", FormatNumber(-0.5))
	assert.Equal(t, "12", FormatNumber(12))
	assert.Equal(t, "0.25", FormatNumber(0.25))
	assert.Equal(t, "0", FormatNumber(0))
}

func TestBuildArgsNegativeStats(t *testing.T) {
	req := Request{
		Spells:       SlotList{"BOMB"},
		ReloadTime:   f64(-12),
		FireRateWait: f64(-3),
	}
	args := BuildArgs(req, Invocation{DataRoot: "/data", ScratchMod: "twwe_mock_x"})

	rt := indexOf(args, "-rt")
	require.GreaterOrEqual(t, rt, 0)
	assert.Equal(t, ".-12", args[rt+1])
	assert.Equal(t, ".-3", args[indexOf(args, "-cd")+1])
	assert.NotContains(t, args, "-12")
}

func TestBuildArgsDefaults(t *testing.T) {
	args := BuildArgs(Request{Spells: SlotList{"BOMB"}}, Invocation{DataRoot: "/data", ScratchMod: "twwe_mock_x"})

	assert.Equal(t, []string{
		"main.lua",
		"-dp", "/data/",
		"-mp", "/data/",
		"-j",
		"-sc", "1",
		"-ma", "100",
		"-mx", "100",
		"-mc", "10",
		"-rt", "0",
		"-cd", "0",
		"-nc", "10",
		"-u", "true",
		"-e", "true",
		"-f",
		"-md", "twwe_mock_x",
		"-sp", "1:BOMB",
	}, args)
}

func TestBuildArgsGameRootAndFlags(t *testing.T) {
	no := false
	req := Request{
		Spells:          SlotList{"BOMB"},
		AlwaysCast:      []string{"ADD_TRIGGER", ""},
		UnlimitedSpells: &no,
		InitialIfHalf:   &no,
		FoldNodes:       true,
		ManaMax:         f64(1500),
	}
	args := BuildArgs(req, Invocation{DataRoot: "/data", GameRoot: "/games/Noita/", ScratchMod: "twwe_mock_x"})

	assert.Equal(t, "/games/Noita/", args[indexOf(args, "-mp")+1])
	assert.NotContains(t, args, "-f")
	assert.Equal(t, "false", args[indexOf(args, "-u")+1])
	assert.Equal(t, "false", args[indexOf(args, "-e")+1])
	assert.Equal(t, "1500", args[indexOf(args, "-ma")+1])
	assert.Equal(t, "1500", args[indexOf(args, "-mx")+1])

	ac := indexOf(args, "-ac")
	require.GreaterOrEqual(t, ac, 0)
	assert.Equal(t, "ADD_TRIGGER", args[ac+1])
	assert.Equal(t, "-md", args[ac+2])
}

func TestBuildArgsSlotOrderAndUses(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{
		"spells": {"10": "DIGGER", "2": "BOMB", "5": "LIGHT_BULLET"},
		"spell_uses": {"2": 3, "7": 1, "10": -1}
	}`), &req))

	args := BuildArgs(req, Invocation{DataRoot: "/data", ScratchMod: "twwe_mock_x"})
	sp := indexOf(args, "-sp")
	require.GreaterOrEqual(t, sp, 0)
	assert.Equal(t, []string{"2:BOMB", "3", "5:LIGHT_BULLET", "10:DIGGER", ".-1"}, args[sp+1:])
}

func TestModList(t *testing.T) {
	mods := ModList("twwe_mock_x", []string{"a", "wand_sync", "b", "a", "", "twwe_mock_x"}, "wand_sync")
	assert.Equal(t, []string{"twwe_mock_x", "a", "b"}, mods)

	assert.Equal(t, []string{"twwe_mock_x"}, ModList("twwe_mock_x", nil, "wand_sync"))
}

func TestBuildArgsModsBeforeSpells(t *testing.T) {
	args := BuildArgs(Request{Spells: SlotList{"BOMB"}}, Invocation{
		DataRoot:   "/data",
		ScratchMod: "twwe_mock_x",
		Mods:       []string{"wand_sync", "grahamsperks"},
		SyncModID:  "wand_sync",
	})
	md := indexOf(args, "-md")
	assert.Equal(t, []string{"-md", "twwe_mock_x", "grahamsperks", "-sp", "1:BOMB"}, args[md:])
}
