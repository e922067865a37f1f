package dat

import (
	"encoding/xml"
	"os"
	"path/filepath"
)

// TechSet answers whether a ship or outfit name appears in any tech group.
// Assets absent from every group can never be bought in game, which is worth
// a notice even when the asset is otherwise referenced.
type TechSet struct {
	items map[string]bool
}

// techXML mirrors the shape of tech.xml: groups of item names.
type techXML struct {
	Groups []struct {
		Name  string   `xml:"name,attr"`
		Items []string `xml:"item"`
	} `xml:"tech"`
}

// Tech loads <datpath>/tech.xml into a TechSet.
func Tech(datpath string) (*TechSet, error) {
	path := filepath.Join(datpath, "tech.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	var doc techXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	t := &TechSet{items: make(map[string]bool)}
	for _, group := range doc.Groups {
		for _, item := range group.Items {
			t.items[item] = true
		}
	}
	return t, nil
}

// Available reports whether name appears in at least one tech group.
func (t *TechSet) Available(name string) bool {
	return t.items[name]
}
