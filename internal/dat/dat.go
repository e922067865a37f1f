// Package dat loads the named asset definitions from a naev data tree.
//
// The data files are flat XML lists: ship.xml, outfit.xml, fleet.xml and
// unidiff.xml each hold a sequence of elements carrying a unique name
// attribute, and tech.xml groups item names into tech groups. Only the names
// (and, for tech, group membership) matter here; everything else in the
// files is skipped.
package dat

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ParseError reports an unreadable or malformed data definition file. Any
// ParseError during registry construction is fatal to the whole run.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Ships returns the ship names defined in <datpath>/ship.xml.
func Ships(datpath string) ([]string, error) {
	return namedElements(filepath.Join(datpath, "ship.xml"), "ship")
}

// Outfits returns the outfit names defined in <datpath>/outfit.xml.
func Outfits(datpath string) ([]string, error) {
	return namedElements(filepath.Join(datpath, "outfit.xml"), "outfit")
}

// Fleets returns the fleet names defined in <datpath>/fleet.xml.
func Fleets(datpath string) ([]string, error) {
	return namedElements(filepath.Join(datpath, "fleet.xml"), "fleet")
}

// Diffs returns the universe-diff names defined in <datpath>/unidiff.xml.
func Diffs(datpath string) ([]string, error) {
	return namedElements(filepath.Join(datpath, "unidiff.xml"), "unidiff")
}

// namedElements streams an XML file and collects the name attribute of every
// element with the given local name. Elements missing the attribute are a
// data error: every asset must be addressable by name.
func namedElements(path, element string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	var names []string
	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != element {
			continue
		}
		name, ok := attr(start, "name")
		if !ok {
			return nil, &ParseError{
				Path: path,
				Err:  fmt.Errorf("<%s> element without name attribute", element),
			}
		}
		names = append(names, name)
	}
	return names, nil
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
