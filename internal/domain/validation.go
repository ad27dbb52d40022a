package domain

import (
	"regexp"
)

var (
	loginRe = regexp.MustCompile(`^[A-Za-z0-9]{8,}$`)
	// Password: min 8, both letter cases, a digit and a symbol.
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
	symRe   = regexp.MustCompile(`[^A-Za-z0-9]`)

	// Markdown file names: no spaces or path separators, .md/.markdown only.
	fileNameRe = regexp.MustCompile(`^[A-Za-z0-9._-]+\.(md|markdown)$`)
)

func ValidLogin(s string) bool {
	return loginRe.MatchString(s)
}

func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	return upperRe.MatchString(s) && lowerRe.MatchString(s) && digitRe.MatchString(s) && symRe.MatchString(s)
}

func ValidFileName(s string) bool {
	if len(s) > 255 {
		return false
	}
	return fileNameRe.MatchString(s)
}
