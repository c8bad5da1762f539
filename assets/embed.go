// Package assets embeds the default word lists so the service and the CLI
// run without any configured files. Both files are one word per line with
// "#" comments; parsing and validation live in internal/words.
package assets

import "embed"

//go:embed allowed.txt answers.txt
var FS embed.FS

// Answers returns the raw embedded answer list.
func Answers() []byte { return mustRead("answers.txt") }

// Allowed returns the raw embedded list of extra allowed guesses.
func Allowed() []byte { return mustRead("allowed.txt") }

// mustRead panics if name is not embedded.
func mustRead(name string) []byte {
	b, err := FS.ReadFile(name)
	if err != nil {
		panic("assets: " + err.Error())
	}
	return b
}
