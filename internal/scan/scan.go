// Package scan extracts asset-reference call sites from Lua script text.
//
// The scan is deliberately lexical: it recognizes the four call patterns by
// their literal spelling wherever they appear, including inside comments and
// strings. Parsing Lua for real would change which references are found (a
// commented-out pilot.add still names a fleet that exists), so no syntax tree
// is built.
package scan

import (
	"iter"
	"regexp"
	"strings"
)

// Kind identifies which of the four recognized calls produced a site.
type Kind int

const (
	AddPilot Kind = iota // pilot.add("…")
	AddShip              // player.addShip("…")
	AddOutfit            // addOutfit("…")
	ApplyDiff            // diff.apply("…")
)

// Label returns the call keyword without its trailing parenthesis, as it
// appears in diagnostics (e.g. "pilot.add").
func (k Kind) Label() string {
	switch k {
	case AddPilot:
		return "pilot.add"
	case AddShip:
		return "player.addShip"
	case AddOutfit:
		return "addOutfit"
	case ApplyDiff:
		return "diff.apply"
	}
	return "unknown"
}

// Site is one reference site: a recognized call and its quoted argument,
// located within the scanned text. Line and Column are 1-based; Column is the
// distance from the nearest preceding line break to the start of the match.
type Site struct {
	Kind     Kind
	Argument string
	Line     int
	Column   int
}

// The argument is everything between the opening quote and the next quote
// character. No escape processing; an empty argument does not match. A
// closing quote is not required, matching wherever the literal pattern
// appears.
var callPattern = regexp.MustCompile(
	`(pilot\.add\(|player\.addShip\(|addOutfit\(|diff\.apply\()"([^"]+)`)

var kindByKeyword = map[string]Kind{
	`pilot.add(`:      AddPilot,
	`player.addShip(`: AddShip,
	`addOutfit(`:      AddOutfit,
	`diff.apply(`:     ApplyDiff,
}

// Scan returns the reference sites in text, in order of appearance. The
// sequence is lazy, finite and restartable: ranging over it twice yields
// identical sites.
func Scan(text string) iter.Seq[Site] {
	return func(yield func(Site) bool) {
		for _, m := range callPattern.FindAllStringSubmatchIndex(text, -1) {
			keyword := text[m[2]:m[3]]
			line, col := Position(text, m[0])
			site := Site{
				Kind:     kindByKeyword[keyword],
				Argument: text[m[4]:m[5]],
				Line:     line,
				Column:   col,
			}
			if !yield(site) {
				return
			}
		}
	}
}

// Position converts a byte offset in text to a 1-based line number and the
// 1-based offset from the preceding line break.
func Position(text string, offset int) (line, column int) {
	line = strings.Count(text[:offset], "\n") + 1
	column = offset - strings.LastIndex(text[:offset], "\n")
	return line, column
}
