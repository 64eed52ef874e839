package form

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Value reads the field at path as text. It accepts the same paths as
// SetField, so teaching methods read as "yes" or "no" and slot
// availability as "yes" or "no".
func (d *Document) Value(section Section, path string) (string, error) {
	if section == SectionAvailability {
		switch {
		case strings.HasPrefix(path, "timeSlots."):
			parts := strings.SplitN(strings.TrimPrefix(path, "timeSlots."), ".", 2)
			slot := d.Slot(parts[0])
			if slot == nil || len(parts) != 2 {
				return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, section, path)
			}
			switch parts[1] {
			case "startTime":
				return slot.StartTime, nil
			case "endTime":
				return slot.EndTime, nil
			case "available":
				return yesNo(slot.Available), nil
			}
			return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, section, path)
		case strings.HasPrefix(path, "teachingMethods."):
			return yesNo(d.HasTeachingMethod(strings.TrimPrefix(path, "teachingMethods."))), nil
		}
	}

	target, err := d.section(section)
	if err != nil {
		return "", err
	}
	v := reflect.ValueOf(target).Elem()
	for _, part := range strings.Split(path, ".") {
		if v.Kind() != reflect.Struct {
			return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, section, path)
		}
		f, ok := fieldByJSONName(v.Type(), part)
		if !ok {
			return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, section, path)
		}
		v = v.FieldByIndex(f.Index)
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Bool:
		return yesNo(v.Bool()), nil
	}
	return "", fmt.Errorf("%w: %s.%s is not a scalar", ErrUnknownField, section, path)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// PatchFrom returns every scalar leaf of section as a Patch that
// UpdateSection accepts. Lists are left out; time slots, teaching methods
// and qualifications have their own edit operations.
func (d *Document) PatchFrom(section Section) (Patch, error) {
	target, err := d.section(section)
	if err != nil {
		return nil, err
	}
	patch := Patch{}
	flatten(reflect.ValueOf(target).Elem(), "", patch)
	return patch, nil
}

func flatten(v reflect.Value, prefix string, out Patch) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Struct:
			flatten(fv, prefix+name+".", out)
		case reflect.Slice, reflect.Map:
		default:
			out[prefix+name] = fv.Interface()
		}
	}
}
