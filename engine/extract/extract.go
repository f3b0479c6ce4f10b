package extract

import "unicode"

// FirstField returns the first whitespace-delimited field of a record.
// A record that is empty or contains only whitespace yields no key; a
// record with no internal whitespace degrades to the whole record being
// the key. No normalization is applied: extraction is case-sensitive
// and punctuation-sensitive.
func FirstField(record string) (string, bool) {
	start := -1
	for i, r := range record {
		if unicode.IsSpace(r) {
			if start >= 0 {
				return record[start:i], true
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start < 0 {
		return "", false
	}
	return record[start:], true
}
