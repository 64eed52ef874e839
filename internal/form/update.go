package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/xid"
)

var (
	// ErrUnknownField is returned when a patch names a field the section does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidValue is returned when a patch value cannot be stored in its field.
	ErrInvalidValue = errors.New("invalid value")
	// ErrListSection is returned for merge updates against the qualifications list.
	ErrListSection = errors.New("qualifications are edited with AddQualification and RemoveQualification")
	// ErrInvalidQualification is returned when a draft lacks subject, level or a positive rate.
	ErrInvalidQualification = errors.New("qualification needs a subject, a level and a rate above 0")
)

// Patch maps field paths to new values. Dotted paths address nested
// fields, e.g. "address.street".
type Patch map[string]any

// Keys returns the patch paths.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// UpdateSection merges patch into one section. Only the addressed leaves
// change; sibling fields and the other sections are left as they were.
// On error the document is unchanged.
func (d *Document) UpdateSection(section Section, patch Patch) error {
	if section == SectionQualifications {
		return ErrListSection
	}
	if len(patch) == 0 {
		return nil
	}

	next := d.Clone()
	target, err := next.section(section)
	if err != nil {
		return err
	}

	nested := make(map[string]any, len(patch))
	for path, value := range patch {
		parts := strings.Split(path, ".")
		// the seven weekday slots are fixed; edit them with SetTimeSlot
		if section == SectionAvailability && parts[0] == "timeSlots" {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, path)
		}
		if !hasPath(reflect.TypeOf(target).Elem(), parts) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, path)
		}
		setNested(nested, parts, value)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(nested); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, section, err)
	}

	*d = *next
	return nil
}

// SetField applies a single text edit. Besides plain field paths it
// understands the availability shorthands "timeSlots.<Day>.<field>",
// "teachingMethods.<Method>" (value "yes" selects, anything else clears)
// and "maxStudentsPerClass" (falls back to the default when unparsable).
func (d *Document) SetField(section Section, path, value string) error {
	if section == SectionAvailability {
		switch {
		case strings.HasPrefix(path, "timeSlots."):
			parts := strings.SplitN(strings.TrimPrefix(path, "timeSlots."), ".", 2)
			if len(parts) != 2 {
				return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, path)
			}
			return d.SetTimeSlot(parts[0], parts[1], value)
		case strings.HasPrefix(path, "teachingMethods."):
			method := strings.TrimPrefix(path, "teachingMethods.")
			if d.HasTeachingMethod(method) != (value == "yes") {
				d.ToggleTeachingMethod(method)
			}
			return nil
		case path == "maxStudentsPerClass":
			d.SetMaxStudents(value)
			return nil
		}
	}
	return d.UpdateSection(section, Patch{path: value})
}

// SetTimeSlot updates one field of the named weekday's slot. field is one
// of startTime, endTime or available.
func (d *Document) SetTimeSlot(day, field, value string) error {
	slot := d.Slot(day)
	if slot == nil {
		return fmt.Errorf("%w: availability.timeSlots.%s", ErrUnknownField, day)
	}
	switch field {
	case "startTime":
		slot.StartTime = value
	case "endTime":
		slot.EndTime = value
	case "available":
		ok, err := strconv.ParseBool(value)
		if err != nil {
			ok = value == "yes"
		}
		slot.Available = ok
	default:
		return fmt.Errorf("%w: availability.timeSlots.%s.%s", ErrUnknownField, day, field)
	}
	return nil
}

// ToggleTeachingMethod adds method if absent and removes it otherwise.
func (d *Document) ToggleTeachingMethod(method string) {
	methods := d.Availability.TeachingMethods
	for i, m := range methods {
		if m == method {
			d.Availability.TeachingMethods = append(methods[:i:i], methods[i+1:]...)
			return
		}
	}
	d.Availability.TeachingMethods = append(methods, method)
}

// SetMaxStudents parses value as the class size limit. Anything that is
// not a positive integer stores DefaultMaxStudents.
func (d *Document) SetMaxStudents(value string) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		n = DefaultMaxStudents
	}
	d.Availability.MaxStudentsPerClass = n
}

// AddQualification appends draft with a fresh ID and returns the stored
// record. Drafts without subject, level or a finite positive rate are
// rejected and the list is unchanged.
func (d *Document) AddQualification(draft Qualification) (Qualification, error) {
	if strings.TrimSpace(draft.Subject) == "" || strings.TrimSpace(draft.Level) == "" ||
		!(draft.Rate > 0) || math.IsInf(draft.Rate, 1) {
		return Qualification{}, ErrInvalidQualification
	}
	if draft.Type == "" {
		draft.Type = ClassPrivate
	}
	draft.ID = xid.New().String()
	d.Qualifications = append(d.Qualifications, draft)
	return draft, nil
}

// RemoveQualification drops the qualification with id. It reports whether
// anything was removed; an unknown id leaves the list untouched.
func (d *Document) RemoveQualification(id string) bool {
	kept := make([]Qualification, 0, len(d.Qualifications))
	for _, q := range d.Qualifications {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(d.Qualifications) {
		return false
	}
	d.Qualifications = kept
	return true
}

func (d *Document) section(section Section) (any, error) {
	switch section {
	case SectionPersonal:
		return &d.PersonalInfo, nil
	case SectionContact:
		return &d.ContactInfo, nil
	case SectionAvailability:
		return &d.Availability, nil
	case SectionEmergency:
		return &d.EmergencyContact, nil
	}
	return nil, fmt.Errorf("%w: section %q", ErrUnknownField, section)
}

// hasPath walks json tag names through nested structs.
func hasPath(t reflect.Type, parts []string) bool {
	for i, part := range parts {
		if t.Kind() != reflect.Struct {
			return false
		}
		f, ok := fieldByJSONName(t, part)
		if !ok {
			return false
		}
		t = f.Type
		if i < len(parts)-1 && t.Kind() != reflect.Struct {
			return false
		}
	}
	return true
}

func fieldByJSONName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if strings.SplitN(f.Tag.Get("json"), ",", 2)[0] == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func setNested(m map[string]any, parts []string, value any) {
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[part] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}
