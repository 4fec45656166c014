package vobject

import "strings"

// FoldWidth is the number of characters written per physical line before a
// continuation is started.
const FoldWidth = 75

// foldBreak starts a continuation line.
const foldBreak = "\r\n "

// Applied one after another, not as a single pass: removing a CRLF continuation
// can expose an LF or CR continuation that a later step then removes.
var unfoldSteps = [][2]string{
	{"\r\n ", ""}, {"\r\n\t", ""},
	{"\n ", ""}, {"\n\t", ""},
	{"\r ", ""}, {"\r\t", ""},
}

// Unfold removes soft line breaks: a CRLF, LF or CR directly followed by a
// single space or tab is deleted together with that whitespace character.
func Unfold(s string) string {
	return applySteps(s, unfoldSteps)
}

// Fold inserts a line break followed by one space after every FoldWidth
// characters. The input must not contain line breaks.
func Fold(s string) string {
	if len(s) <= FoldWidth {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/FoldWidth*len(foldBreak))

	n := 0
	for _, r := range s {
		if n > 0 && n%FoldWidth == 0 {
			b.WriteString(foldBreak)
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
