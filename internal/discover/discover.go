// Package discover produces the list of Lua script files a validation run
// should scan.
//
// Two discovery modes exist for mission scripts: MissionList reads the
// active mission list from dat/mission.xml, DirectoryWalk takes every .lua
// file under dat/missions. Both modes additionally pick up the shared
// scripts/ tree and dat/events/, which are always live.
package discover

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mode selects how mission scripts are discovered.
type Mode int

const (
	// MissionList parses dat/mission.xml and resolves each mission's lua
	// entry against dat/missions. Scripts not on the list are skipped.
	MissionList Mode = iota
	// DirectoryWalk takes every .lua file under dat/missions, listed or not.
	DirectoryWalk
)

// ParseMode converts a CLI spelling ("missionxml" or "rawfiles") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "missionxml":
		return MissionList, nil
	case "rawfiles":
		return DirectoryWalk, nil
	}
	return 0, fmt.Errorf("unknown discovery mode %q (want missionxml or rawfiles)", s)
}

// missionXML mirrors the mission list: each mission names its lua script
// relative to dat/missions, without the .lua suffix.
type missionXML struct {
	Missions []struct {
		Lua []string `xml:"lua"`
	} `xml:"mission"`
}

// Scripts returns the absolute paths of every Lua script the run should
// scan: mission scripts per mode, plus scripts/ and dat/events/. Paths are
// returned in discovery order; duplicates are possible when a listed mission
// script also sits under a walked tree, which is harmless to the scan.
func Scripts(basepath string, mode Mode) ([]string, error) {
	missionpath := filepath.Join(basepath, "dat", "missions")

	var paths []string
	var err error
	switch mode {
	case MissionList:
		paths, err = fromMissionList(filepath.Join(basepath, "dat", "mission.xml"), missionpath)
	case DirectoryWalk:
		paths, err = walkLua(missionpath)
	default:
		err = fmt.Errorf("unknown discovery mode %d", mode)
	}
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{
		filepath.Join(basepath, "scripts"),
		filepath.Join(basepath, "dat", "events"),
	} {
		more, err := walkLua(dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, more...)
	}
	return paths, nil
}

// fromMissionList resolves the lua entries of dat/mission.xml. A missing or
// malformed mission list is fatal: without it there is nothing to validate
// in this mode.
func fromMissionList(listPath, missionpath string) ([]string, error) {
	data, err := os.ReadFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("mission list: %w", err)
	}
	var doc missionXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("mission list %s: %w", listPath, err)
	}
	var paths []string
	for _, mission := range doc.Missions {
		for _, lua := range mission.Lua {
			paths = append(paths, filepath.Join(missionpath, lua+".lua"))
		}
	}
	return paths, nil
}

// walkLua collects every .lua file under root. A missing root is not an
// error: older data trees lack dat/events entirely.
func walkLua(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".lua") {
			paths = append(paths, path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}
