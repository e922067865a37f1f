// Package insanity cross-checks a naev data tree against its Lua scripts.
//
// Every asset name referenced from script source through one of the four
// recognized calls (pilot.add, player.addShip, addOutfit, diff.apply) must
// exist in the matching data definition file, and every defined asset should
// be referenced from somewhere. The Engine reconciles both directions and
// reports unresolved references, unused entities, and ships or outfits that
// no tech group makes purchasable.
//
// # Pipeline
//
// A run makes two passes over the script corpus:
//
//  1. Primary scan: each script file is read once, its text cached, and its
//     reference sites resolved against the registries. Unresolved references
//     become diagnostics on the error writer; unreadable files are skipped
//     with a warning.
//
//  2. Secondary scan: names still unused after the primary pass are compiled
//     into one alternation matcher per category and searched for literally
//     in the cached text. A hit means the name is reachable through some
//     context the call patterns do not cover (a comment, a table of names, a
//     placeholder) and must not be reported as unused.
//
// # Usage
//
// Create an Engine over a naev base path, then run it:
//
//	e, err := insanity.New("path/to/naev")
//	if err != nil { ... }
//	res, err := e.Run()
//
// Run returns a Result holding the accumulated diagnostics and the
// per-category unused and missing-tech name sets.
package insanity
