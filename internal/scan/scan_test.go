package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(text string) []Site {
	var sites []Site
	for site := range Scan(text) {
		sites = append(sites, site)
	}
	return sites
}

func TestScan_AllFourPatterns(t *testing.T) {
	t.Parallel()
	text := `pilot.add("Sml Trader Convoy")
player.addShip("Llama")
addOutfit("Laser Cannon")
diff.apply("collective_dead")`

	sites := collect(text)
	require.Len(t, sites, 4)

	assert.Equal(t, AddPilot, sites[0].Kind)
	assert.Equal(t, "Sml Trader Convoy", sites[0].Argument)
	assert.Equal(t, AddShip, sites[1].Kind)
	assert.Equal(t, "Llama", sites[1].Argument)
	assert.Equal(t, AddOutfit, sites[2].Kind)
	assert.Equal(t, "Laser Cannon", sites[2].Argument)
	assert.Equal(t, ApplyDiff, sites[3].Kind)
	assert.Equal(t, "collective_dead", sites[3].Argument)
}

func TestScan_LineAndColumn(t *testing.T) {
	t.Parallel()
	sites := collect("a\nb\npilot.add(\"X\")")
	require.Len(t, sites, 1)
	assert.Equal(t, 3, sites[0].Line)
	assert.Equal(t, 1, sites[0].Column)
}

func TestScan_FirstLineColumn(t *testing.T) {
	t.Parallel()
	sites := collect(`  addOutfit("Ion Cannon")`)
	require.Len(t, sites, 1)
	assert.Equal(t, 1, sites[0].Line)
	assert.Equal(t, 3, sites[0].Column)
}

func TestScan_Idempotent(t *testing.T) {
	t.Parallel()
	text := "pilot.add(\"A\")\ndiff.apply(\"B\")\n"
	assert.Equal(t, collect(text), collect(text))
}

func TestScan_EarlyBreakIsSafe(t *testing.T) {
	t.Parallel()
	text := "pilot.add(\"A\")\npilot.add(\"B\")"
	var first []Site
	for site := range Scan(text) {
		first = append(first, site)
		break
	}
	require.Len(t, first, 1)
	assert.Equal(t, "A", first[0].Argument)
}

func TestScan_QuoteTerminatesArgument(t *testing.T) {
	t.Parallel()
	sites := collect(`player.addShip("Llama") .. "ignored"`)
	require.Len(t, sites, 1)
	assert.Equal(t, "Llama", sites[0].Argument)
}

func TestScan_UnclosedQuoteStillMatches(t *testing.T) {
	t.Parallel()
	sites := collect(`addOutfit("Laser`)
	require.Len(t, sites, 1)
	assert.Equal(t, "Laser", sites[0].Argument)
}

func TestScan_EmptyArgumentDoesNotMatch(t *testing.T) {
	t.Parallel()
	assert.Empty(t, collect(`addOutfit("")`))
}

func TestScan_LexicalNotSyntactic(t *testing.T) {
	t.Parallel()
	// Commented-out calls still match: the scan is a pattern search, not a
	// Lua parser.
	sites := collect(`-- pilot.add("Ghost Fleet")`)
	require.Len(t, sites, 1)
	assert.Equal(t, "Ghost Fleet", sites[0].Argument)
}

func TestScan_UnrecognizedCallsIgnored(t *testing.T) {
	t.Parallel()
	assert.Empty(t, collect(`player.pay("Llama") pilot.clear() addCargo("Food")`))
}

func TestPosition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		text   string
		offset int
		line   int
		column int
	}{
		{"start of text", "abc", 0, 1, 1},
		{"mid first line", "abcdef", 3, 1, 4},
		{"start of second line", "ab\ncd", 3, 2, 1},
		{"mid third line", "a\nb\n..x", 6, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, column := Position(tt.text, tt.offset)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.column, column)
		})
	}
}

func TestKind_Label(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pilot.add", AddPilot.Label())
	assert.Equal(t, "player.addShip", AddShip.Label())
	assert.Equal(t, "addOutfit", AddOutfit.Label())
	assert.Equal(t, "diff.apply", ApplyDiff.Label())
}
