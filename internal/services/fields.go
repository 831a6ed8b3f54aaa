package services

// The functions below never modify their input; each returns a fresh slice
// that replaces the stored column as a whole.

func containsField(fields []string, value string) bool {
	for _, f := range fields {
		if f == value {
			return true
		}
	}
	return false
}

func appendField(fields []string, value string) ([]string, error) {
	if containsField(fields, value) {
		return nil, ErrFieldExists
	}
	out := make([]string, 0, len(fields)+1)
	out = append(out, fields...)
	return append(out, value), nil
}

// removeField drops the first occurrence of value.
func removeField(fields []string, value string) ([]string, error) {
	for i, f := range fields {
		if f == value {
			out := make([]string, 0, len(fields)-1)
			out = append(out, fields[:i]...)
			return append(out, fields[i+1:]...), nil
		}
	}
	return nil, ErrFieldNotFound
}

// renameField replaces every occurrence of oldValue in place. newValue is not
// checked against the rest of the list, so the result may hold duplicates.
func renameField(fields []string, oldValue, newValue string) ([]string, error) {
	if !containsField(fields, oldValue) {
		return nil, ErrFieldNotFound
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		if f == oldValue {
			out[i] = newValue
		} else {
			out[i] = f
		}
	}
	return out, nil
}

func checkUnique(fields []string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			return ErrDuplicateField
		}
		seen[f] = struct{}{}
	}
	return nil
}
