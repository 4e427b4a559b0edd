package domain

import "strings"

// NormalizePhone strips the leading +1 country-code prefix so phone numbers
// match the key format identity and claim records are stored under.
// Normalizing an already-normalized number returns it unchanged.
func NormalizePhone(phoneNumber string) string {
	return strings.TrimPrefix(phoneNumber, "+1")
}

// NormalizeSpeech cleans up a speech transcript before it is stored:
// surrounding whitespace and trailing punctuation are removed. Case is
// preserved; comparisons downstream are case-insensitive.
func NormalizeSpeech(transcript string) string {
	s := strings.TrimSpace(transcript)
	s = strings.TrimRight(s, ".,!?")
	return strings.TrimSpace(s)
}
