package naming

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstar-studios/auto-exporter/internal/models"
)

func TestParse_DirAndSkip(t *testing.T) {
	clean, d := Parse("Foo -dir:Weapons -sk")
	assert.Equal(t, "Foo", clean)
	assert.Equal(t, "Weapons", d.Dir)
	assert.True(t, d.SkipParent)
	assert.False(t, d.DenyExport)
	assert.False(t, d.Separate)
	assert.False(t, d.Animation)
}

func TestParse_Table(t *testing.T) {
	tests := []struct {
		raw   string
		clean string
		want  Directives
	}{
		{
			raw:   "Crate",
			clean: "Crate",
		},
		{
			raw:   "Rock -DK",
			clean: "Rock",
			want:  Directives{DenyExport: true, Counts: Counts{DK: 1}},
		},
		{
			raw:   "Hero -anim -sep",
			clean: "Hero",
			want:  Directives{Animation: true, Separate: true, Counts: Counts{Anim: 1, Sep: 1}},
		},
		{
			raw:   "  Big   Tree  -sep ",
			clean: "Big Tree",
			want:  Directives{Separate: true, Counts: Counts{Sep: 1}},
		},
		{
			raw:   "Lamp-dk-sk",
			clean: "Lamp",
			want:  Directives{DenyExport: true, SkipParent: true, Counts: Counts{DK: 1, SK: 1}},
		},
		{
			raw:   "Skull -skeleton",
			clean: "Skull -skeleton",
		},
		{
			raw:   "Desk",
			clean: "Desk",
		},
		{
			// duplicate suffix after a directive stays in the name
			raw:   "Foo -sk.001",
			clean: "Foo .001",
			want:  Directives{SkipParent: true, Counts: Counts{SK: 1}},
		},
		{
			raw:   "Gate -Dir:Props/Doors",
			clean: "Gate",
			want:  Directives{Dir: "Props/Doors", DirValues: []string{"Props/Doors"}, Counts: Counts{Dir: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			clean, d := Parse(tt.raw)
			assert.Equal(t, tt.clean, clean)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestParse_FirstDirWins(t *testing.T) {
	clean, d := Parse("Sword -dir:One -dir:Two")
	assert.Equal(t, "Sword", clean)
	assert.Equal(t, "One", d.Dir)
	assert.Equal(t, []string{"One", "Two"}, d.DirValues)
	assert.Equal(t, 2, d.Counts.Dir)
}

func TestParse_RepeatedDenyExport(t *testing.T) {
	for n := 2; n <= 5; n++ {
		raw := "Crate" + strings.Repeat(" -dk", n)
		clean, d := Parse(raw)
		assert.Equal(t, "Crate", clean)
		assert.True(t, d.DenyExport)
		assert.Equal(t, n, d.Counts.DK)

		issues := CheckName("Object", raw)
		require.Len(t, issues, 1)
		assert.Equal(t, models.SeverityWarning, issues[0].Severity)
		assert.Contains(t, issues[0].Message, fmt.Sprintf("%d duplicate -dk", n))
	}
}

func TestParse_NeverFailsOnOddInput(t *testing.T) {
	for _, raw := range []string{"", "-", "-dir:", " -dk", "---", "dir:x"} {
		assert.NotPanics(t, func() { Parse(raw) })
	}
	clean, d := Parse(" -dk")
	assert.Equal(t, "", clean)
	assert.True(t, d.DenyExport)
}

func TestCheckName_DenyAndSkipIsOneError(t *testing.T) {
	issues := CheckName("Object", "Box -dk -sk")
	require.Len(t, issues, 1)
	assert.Equal(t, models.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "-dk")
	assert.Contains(t, issues[0].Message, "-sk")
}

func TestCheckName_DuplicateDirListsAllValues(t *testing.T) {
	issues := CheckName("Scene filename", "scene -dir:A -dir:B -dir:C")
	require.Len(t, issues, 1)
	assert.Equal(t, models.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "3 duplicate -dir")
	assert.Contains(t, issues[0].Message, "A, B, C")
}

func TestCheckName_InvalidDirValue(t *testing.T) {
	issues := CheckName("Object", "Gate -dir:Props/Doors")
	require.Len(t, issues, 1)
	assert.Equal(t, models.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "invalid -dir value")
}

func TestCheckName_Clean(t *testing.T) {
	assert.Empty(t, CheckName("Object", "Tree -dir:Foliage -anim"))
}
