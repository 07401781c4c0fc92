package naming

import (
	"fmt"
	"strings"

	"github.com/wildstar-studios/auto-exporter/internal/models"
)

// CheckName reports duplicated, conflicting, or invalid directives found in
// raw. itemType labels the owner in messages ("Object", "Scene filename").
func CheckName(itemType, raw string) []models.Issue {
	clean, d := Parse(raw)
	var issues []models.Issue

	switch {
	case d.Counts.Dir > 1:
		issues = append(issues, models.Issue{
			Severity: models.SeverityError,
			Message: fmt.Sprintf("%s '%s': %d duplicate -dir modifiers found: %s",
				itemType, clean, d.Counts.Dir, strings.Join(d.DirValues, ", ")),
		})
	case d.Counts.Dir == 1:
		if err := ValidateDirName(d.DirValues[0]); err != nil {
			issues = append(issues, models.Issue{
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("%s '%s': invalid -dir value: %v", itemType, clean, err),
			})
		}
	}

	for _, b := range []struct {
		token string
		count int
	}{
		{"-sep", d.Counts.Sep},
		{"-dk", d.Counts.DK},
		{"-sk", d.Counts.SK},
		{"-anim", d.Counts.Anim},
	} {
		if b.count > 1 {
			issues = append(issues, models.Issue{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("%s '%s': %d duplicate %s modifiers found (redundant)", itemType, clean, b.count, b.token),
			})
		}
	}

	if d.DenyExport && d.SkipParent {
		issues = append(issues, models.Issue{
			Severity: models.SeverityError,
			Message:  fmt.Sprintf("%s '%s': -dk and -sk cannot be used together (conflicting exclusion)", itemType, clean),
		})
	}

	return issues
}
