package util

import "unicode/utf8"

// TrimString shortens s to at most length runes
func TrimString(s string, length int) string {
	if length <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= length {
		return s
	}

	return string([]rune(s)[:length])
}

// PadString right pads s with spaces to length runes
func PadString(s string, length int) string {
	count := utf8.RuneCountInString(s)
	if count >= length {
		return s
	}

	padding := make([]byte, length-count)
	for i := range padding {
		padding[i] = ' '
	}

	return s + string(padding)
}
