package lead

import "strings"

// Field is an optional text value. The zero value is absent, and so is any
// value that is blank after trimming, which keeps "not found" and "empty"
// from ever being told apart downstream.
type Field struct {
	value string
	set   bool
}

// Some returns a present Field, or an absent one when v is blank.
func Some(v string) Field {
	v = strings.TrimSpace(v)
	if v == "" {
		return Field{}
	}
	return Field{value: v, set: true}
}

// None returns an absent Field.
func None() Field {
	return Field{}
}

// Get returns the value and whether it is present.
func (f Field) Get() (string, bool) {
	return f.value, f.set
}

// IsSet reports whether the field holds a value.
func (f Field) IsSet() bool {
	return f.set
}

// String returns the value, or "" when absent.
func (f Field) String() string {
	return f.value
}

// Or returns the value, or def when absent.
func (f Field) Or(def string) string {
	if !f.set {
		return def
	}
	return f.value
}

// Len is the rune length of the value.
func (f Field) Len() int {
	return len([]rune(f.value))
}
