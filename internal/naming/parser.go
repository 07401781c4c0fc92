// Package naming extracts export directives embedded in free-text entity and
// file names, and checks them for duplicates and conflicts.
//
// A directive is a token introduced by a space or hyphen:
//
//	-dir:<path>   write the unit under <export path>/<path>
//	-sep          mark as separate
//	-dk           deny export
//	-sk           skip as parent root (children still export on their own)
//	-anim         include animation
//
// Matching is case-insensitive. Every occurrence is stripped from the name;
// for -dir only the first value is applied.
package naming

import (
	"regexp"
	"strings"
)

var (
	dirRe   = regexp.MustCompile(`(?i)[\s\-]dir:(\S+)`)
	sepRe   = regexp.MustCompile(`(?i)[\s\-]sep\b`)
	dkRe    = regexp.MustCompile(`(?i)[\s\-]dk\b`)
	skRe    = regexp.MustCompile(`(?i)[\s\-]sk\b`)
	animRe  = regexp.MustCompile(`(?i)[\s\-]anim\b`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Counts records how many times each directive occurred in a name.
type Counts struct {
	Dir  int `json:"dir"`
	Sep  int `json:"sep"`
	DK   int `json:"dk"`
	SK   int `json:"sk"`
	Anim int `json:"anim"`
}

// Directives is the immutable result of parsing a name.
type Directives struct {
	Dir        string   `json:"dir,omitempty"`
	DirValues  []string `json:"dir_values,omitempty"` // every -dir: value, in order
	Separate   bool     `json:"separate"`
	DenyExport bool     `json:"deny_export"`
	SkipParent bool     `json:"skip_parent"`
	Animation  bool     `json:"animation"`
	Counts     Counts   `json:"counts"`
}

// HasDir reports whether a directory override is present.
func (d Directives) HasDir() bool { return d.Dir != "" }

// Parse strips every directive from raw and returns the cleaned display name
// along with the parsed directives. It never fails; absent directives are off.
func Parse(raw string) (string, Directives) {
	var d Directives
	name := strings.TrimSpace(raw)

	for _, m := range dirRe.FindAllStringSubmatch(name, -1) {
		d.DirValues = append(d.DirValues, m[1])
	}
	d.Counts.Dir = len(d.DirValues)
	if d.Counts.Dir > 0 {
		d.Dir = strings.TrimSpace(d.DirValues[0])
		name = dirRe.ReplaceAllString(name, "")
	}

	d.Counts.Sep = len(sepRe.FindAllStringIndex(name, -1))
	d.Counts.DK = len(dkRe.FindAllStringIndex(name, -1))
	d.Counts.SK = len(skRe.FindAllStringIndex(name, -1))
	d.Counts.Anim = len(animRe.FindAllStringIndex(name, -1))

	d.Separate = d.Counts.Sep > 0
	d.DenyExport = d.Counts.DK > 0
	d.SkipParent = d.Counts.SK > 0
	d.Animation = d.Counts.Anim > 0

	for _, re := range []*regexp.Regexp{sepRe, dkRe, skRe, animRe} {
		name = re.ReplaceAllString(name, "")
	}
	name = strings.TrimSpace(spaceRe.ReplaceAllString(name, " "))

	return name, d
}
