package insanity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kienanstewart/insanity/internal/dat"
	"github.com/kienanstewart/insanity/internal/discover"
	"github.com/kienanstewart/insanity/internal/registry"
	"github.com/kienanstewart/insanity/internal/scan"
)

// Diagnostic is one unresolved reference: a call site whose argument matched
// no entity in the corresponding registry.
type Diagnostic struct {
	Kind     Kind
	Argument string
	File     string
	Line     int
	Column   int
}

// String renders the diagnostic line written to the error writer.
func (d Diagnostic) String() string {
	return fmt.Sprintf("Can not found element '%s' for function %s at line %d offset %d",
		d.Argument, d.Kind.Label(), d.Line, d.Column)
}

// Result summarizes a completed validation run.
type Result struct {
	BasePath     string
	Started      time.Time
	Finished     time.Time
	FilesScanned int
	FilesSkipped int
	Diagnostics  []Diagnostic
	Unused       map[Category][]string
	MissingTech  map[Category][]string
}

// Engine orchestrates the validation pipeline: registry construction, script
// discovery, the primary reference scan, and the secondary unused-name scan.
type Engine struct {
	basePath   string
	datPath    string
	mode       Mode
	verbose    bool
	showUnused bool
	scripts    []string
	out        io.Writer
	errw       io.Writer

	// registries in report order; byKind routes call sites to their owner.
	registries []*registry.Registry
	byKind     map[Kind]*registry.Registry

	// cache holds the full text of every readable script for the run's
	// duration; the secondary scan re-reads it. Bounding its footprint is a
	// non-goal.
	cache map[string]string
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode selects the script discovery mode. Default is MissionList.
func WithMode(mode Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithDatPath overrides the data directory, normally <base>/dat.
func WithDatPath(path string) Option {
	return func(e *Engine) { e.datPath = path }
}

// WithVerbose enables per-file processing notices on the output writer.
func WithVerbose(verbose bool) Option {
	return func(e *Engine) { e.verbose = verbose }
}

// WithShowUnused enables the unused-entity report for all four categories.
func WithShowUnused(show bool) Option {
	return func(e *Engine) { e.showUnused = show }
}

// WithOutput redirects the progress and error streams, which default to
// os.Stdout and os.Stderr. Diagnostics and I/O warnings go to errw.
func WithOutput(out, errw io.Writer) Option {
	return func(e *Engine) {
		e.out = out
		e.errw = errw
	}
}

// WithScripts supplies the script file list directly, bypassing discovery.
func WithScripts(paths ...string) Option {
	return func(e *Engine) { e.scripts = paths }
}

// New constructs the four registries from the data tree under basePath and
// returns an Engine ready to run. Any unreadable or malformed data file is
// fatal: no partial registry is usable.
func New(basePath string, opts ...Option) (*Engine, error) {
	e := &Engine{
		basePath: basePath,
		mode:     MissionList,
		out:      os.Stdout,
		errw:     os.Stderr,
		cache:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.datPath == "" {
		e.datPath = filepath.Join(basePath, "dat")
	}

	tech, err := dat.Tech(e.datPath)
	if err != nil {
		return nil, fmt.Errorf("insanity: %w", err)
	}
	fleets, err := dat.Fleets(e.datPath)
	if err != nil {
		return nil, fmt.Errorf("insanity: %w", err)
	}
	diffs, err := dat.Diffs(e.datPath)
	if err != nil {
		return nil, fmt.Errorf("insanity: %w", err)
	}
	ships, err := dat.Ships(e.datPath)
	if err != nil {
		return nil, fmt.Errorf("insanity: %w", err)
	}
	outfits, err := dat.Outfits(e.datPath)
	if err != nil {
		return nil, fmt.Errorf("insanity: %w", err)
	}

	fleet := registry.New(registry.Fleet, fleets, nil)
	diff := registry.New(registry.Unidiff, diffs, nil)
	ship := registry.New(registry.Ship, ships, tech)
	outfit := registry.New(registry.Outfit, outfits, tech)

	e.registries = []*registry.Registry{fleet, diff, ship, outfit}
	e.byKind = map[Kind]*registry.Registry{
		AddPilot:  fleet,
		ApplyDiff: diff,
		AddShip:   ship,
		AddOutfit: outfit,
	}
	return e, nil
}

// Registry returns the registry for category, or nil if unknown.
func (e *Engine) Registry(category Category) *Registry {
	for _, r := range e.registries {
		if r.Category() == category {
			return r
		}
	}
	return nil
}

// Run executes the whole pipeline and returns the accumulated result.
// Unreadable script files are warned about and skipped; every other error
// aborts the run.
func (e *Engine) Run() (*Result, error) {
	res := &Result{
		BasePath:    e.basePath,
		Started:     time.Now(),
		Unused:      make(map[Category][]string),
		MissingTech: make(map[Category][]string),
	}

	paths := e.scripts
	if paths == nil {
		var err error
		paths, err = discover.Scripts(e.basePath, e.mode)
		if err != nil {
			return nil, fmt.Errorf("insanity: %w", err)
		}
		fmt.Fprintf(e.out, "Compiled %d script files\n", len(paths))
	}

	e.primaryScan(paths, res)
	e.secondaryScan()
	e.report(res)

	res.Finished = time.Now()
	return res, nil
}

// primaryScan reads each script, caches its text, and resolves every
// reference site against the owning registry. Diagnostics for a file flush
// to the error writer as soon as that file is done.
func (e *Engine) primaryScan(paths []string, res *Result) {
	for _, path := range paths {
		if e.verbose {
			fmt.Fprintf(e.out, "Processing file %s...", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if e.verbose {
				fmt.Fprintln(e.out)
			}
			fmt.Fprintf(e.errw, "I/O error: %v\n", err)
			res.FilesSkipped++
			continue
		}
		text := string(data)
		e.cache[path] = text

		var pending []Diagnostic
		for site := range scan.Scan(text) {
			if e.byKind[site.Kind].Find(site.Argument) {
				continue
			}
			pending = append(pending, Diagnostic{
				Kind:     site.Kind,
				Argument: site.Argument,
				File:     path,
				Line:     site.Line,
				Column:   site.Column,
			})
		}
		for _, d := range pending {
			fmt.Fprintln(e.errw, d)
		}
		res.Diagnostics = append(res.Diagnostics, pending...)
		res.FilesScanned++

		if e.verbose {
			fmt.Fprintln(e.out, " DONE")
		}
	}
}

// secondaryScan searches the cached script text for literal occurrences of
// names the primary pass left unused. A hit marks the name as reachable so
// it is not reported. Categories with nothing unused get no matcher.
func (e *Engine) secondaryScan() {
	type matcher struct {
		reg *registry.Registry
		re  *regexp.Regexp
	}
	var matchers []matcher
	for _, reg := range e.registries {
		unused := reg.Unused()
		if len(unused) == 0 {
			continue
		}
		matchers = append(matchers, matcher{reg: reg, re: unusedMatcher(unused)})
	}
	if len(matchers) == 0 {
		return
	}

	for _, text := range e.cache {
		for _, m := range matchers {
			for _, hit := range m.re.FindAllString(text, -1) {
				// A wrapped multi-word name matches with its whitespace
				// mangled; collapse it back before the registry lookup.
				m.reg.SetUnknown(strings.Join(strings.Fields(hit), " "))
			}
		}
	}
}

// unusedMatcher compiles one case-sensitive alternation over names.
// Internal spaces match any whitespace run so names wrapped across lines
// still hit. Longer names sort first so a name that prefixes another cannot
// shadow it. Duplicates collapse to one alternative.
func unusedMatcher(names []string) *regexp.Regexp {
	uniq := make(map[string]bool, len(names))
	var alts []string
	for _, name := range names {
		if uniq[name] {
			continue
		}
		uniq[name] = true
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(name), " ", `\s+`))
	}
	sort.Slice(alts, func(i, j int) bool {
		if len(alts[i]) != len(alts[j]) {
			return len(alts[i]) > len(alts[j])
		}
		return alts[i] < alts[j]
	})
	return regexp.MustCompile(strings.Join(alts, "|"))
}

// report fills the result's name sets and writes the terminal reports: tech
// notices for ships and outfits unconditionally, unused notices on request.
func (e *Engine) report(res *Result) {
	for _, reg := range e.registries {
		res.Unused[reg.Category()] = reg.Unused()
		res.MissingTech[reg.Category()] = reg.MissingTech()
	}

	e.Registry(Outfit).ShowMissingTech(e.out)
	e.Registry(Ship).ShowMissingTech(e.out)

	if e.showUnused {
		for _, category := range []Category{Outfit, Ship, Fleet, Unidiff} {
			e.Registry(category).ShowUnused(e.out)
		}
	}
}
