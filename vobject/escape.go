package vobject

import "strings"

// Replacement order matters in both directions. Later steps must not re-trigger
// earlier ones, so each pair is applied to the whole string in turn.
var (
	escapeSteps = [][2]string{
		{`\N`, "\n"},
		{`\`, `\\`},
		{";", `\;`},
		{",", `\,`},
		{"\r\n", `\n`},
		{"\n", `\n`},
	}
	unescapeSteps = [][2]string{
		{`\N`, `\n`},
		{"\r\n", "\n"},
		{`\n`, "\n"},
		{`\,`, ","},
		{`\;`, ";"},
		{`\\`, `\`},
	}
)

// Escape converts a logical text value into the form used on the wire.
func Escape(s string) string {
	return applySteps(s, escapeSteps)
}

// Unescape converts a wire value back into its logical text.
func Unescape(s string) string {
	return applySteps(s, unescapeSteps)
}

func applySteps(s string, steps [][2]string) string {
	for _, step := range steps {
		s = strings.ReplaceAll(s, step[0], step[1])
	}
	return s
}
