package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/teacherhub/internal/form"
)

const clockLayout = "15:04"

// CrossField runs the checks that span several fields of one section.
// Availability: every available slot needs a start before its end.
// Qualifications: no two records share subject, level and type.
func CrossField(section form.Section, doc *form.Document) Ledger {
	out := Ledger{}
	switch section {
	case form.SectionAvailability:
		for _, slot := range doc.Availability.TimeSlots {
			if !slot.Available {
				continue
			}
			out.Set("timeSlots."+slot.Day, checkSlot(slot))
		}
	case form.SectionQualifications:
		seen := make(map[string]bool, len(doc.Qualifications))
		for _, q := range doc.Qualifications {
			key := strings.ToLower(q.Subject + "|" + q.Level + "|" + q.Type)
			if seen[key] {
				out.Set("qualifications", fmt.Sprintf("Duplicate qualification: %s (%s, %s)", q.Subject, q.Level, q.Type))
				continue
			}
			seen[key] = true
		}
	}
	return out
}

func checkSlot(slot form.TimeSlot) string {
	if slot.StartTime == "" || slot.EndTime == "" {
		return fmt.Sprintf("%s needs a start and end time", slot.Day)
	}
	start, err := time.Parse(clockLayout, slot.StartTime)
	if err != nil {
		return fmt.Sprintf("%s start time must be HH:MM", slot.Day)
	}
	end, err := time.Parse(clockLayout, slot.EndTime)
	if err != nil {
		return fmt.Sprintf("%s end time must be HH:MM", slot.Day)
	}
	if !start.Before(end) {
		return fmt.Sprintf("%s start time must be before end time", slot.Day)
	}
	return ""
}
