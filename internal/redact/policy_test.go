package redact

import (
	"fmt"
	"testing"

	"github.com/dshills/codereg/internal/comment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decide(lang string, lines []string, rules Rules) ([]comment.Line, []Decision) {
	tagger := comment.DefaultTagger()
	classified, _ := comment.NewClassifier(comment.Lookup(lang), tagger).File(lines)
	spans := comment.Detect(classified, tagger)
	return classified, Decide(classified, spans, rules)
}

func actions(ds []Decision) []Action {
	out := make([]Action, len(ds))
	for i, d := range ds {
		out[i] = d.Action
	}
	return out
}

func TestDecide_Scenario(t *testing.T) {
	lines := []string{"code1", "# c1", "# c2", "# c3", "code2"}
	_, ds := decide("python", lines, Rules{SamplingRatio: 3})
	require.Len(t, ds, len(lines))
	assert.Equal(t, []Action{ActionKeep, ActionKeep, ActionKeep, ActionDrop, ActionKeep}, actions(ds))
	assert.Equal(t, ReasonSampled, ds[3].Reason)
}

func TestDecide_OneDecisionPerLine(t *testing.T) {
	lines := []string{"/* a", "b */", "x = 1 // c", "// d", ""}
	_, ds := decide("c", lines, Rules{StripBlockComments: true, SamplingRatio: 2})
	require.Len(t, ds, len(lines))
	for i, d := range ds {
		assert.Equal(t, i, d.Line)
	}
}

func TestDecide_SamplingExactness(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 7, 12, 30} {
		for _, r := range []int{2, 3, 4, 7} {
			t.Run(fmt.Sprintf("n=%d r=%d", n, r), func(t *testing.T) {
				lines := make([]string, 0, 2*n)
				for i := 0; i < n; i++ {
					// Interleave code so the counter must skip non-eligible lines.
					lines = append(lines, fmt.Sprintf("v%d = %d", i, i), fmt.Sprintf("# c%d", i))
				}
				_, ds := decide("python", lines, Rules{SamplingRatio: r})

				var dropped []int
				eligible := 0
				for i, d := range ds {
					if i%2 == 0 {
						assert.Equal(t, ActionKeep, d.Action, "code line %d", i)
						continue
					}
					eligible++
					if d.Action == ActionDrop {
						dropped = append(dropped, eligible)
					}
				}
				require.Len(t, dropped, n/r)
				for k, pos := range dropped {
					assert.Equal(t, (k+1)*r, pos)
				}
			})
		}
	}
}

func TestDecide_RatioBoundaries(t *testing.T) {
	lines := []string{"# a", "x = 1  # b", "# c", "y = 2"}

	_, ds := decide("python", lines, Rules{SamplingRatio: 0})
	assert.Equal(t, []Action{ActionKeep, ActionKeep, ActionKeep, ActionKeep}, actions(ds))

	_, ds = decide("python", lines, Rules{SamplingRatio: 1})
	assert.Equal(t, []Action{ActionDrop, ActionSplit, ActionDrop, ActionKeep}, actions(ds))

	_, ds = decide("python", nil, Rules{SamplingRatio: 1})
	assert.Empty(t, ds)
}

func TestDecide_BlockExemption(t *testing.T) {
	lines := []string{"/* x */", "int a;", "/*", " * doc", " */"}

	_, ds := decide("c", lines, Rules{StripBlockComments: true})
	assert.Equal(t, []Action{ActionKeep, ActionKeep, ActionDrop, ActionDrop, ActionDrop}, actions(ds))

	_, ds = decide("c", lines, Rules{StripBlockComments: true, SamplingRatio: 1})
	assert.Equal(t, ActionDrop, ds[0].Action)
	assert.Equal(t, ReasonSampled, ds[0].Reason)
	assert.Equal(t, ReasonBlock, ds[2].Reason)
}

func TestDecide_MultiLineBlockNotSampled(t *testing.T) {
	lines := []string{"/*", " * doc", " */", "// a"}
	_, ds := decide("c", lines, Rules{SamplingRatio: 1})
	assert.Equal(t, []Action{ActionKeep, ActionKeep, ActionKeep, ActionDrop}, actions(ds))
}

func TestDecide_IncompleteBlockDropped(t *testing.T) {
	lines := []string{"int a;", "/* never closed"}
	_, ds := decide("c", lines, Rules{StripBlockComments: true})
	assert.Equal(t, []Action{ActionKeep, ActionDrop}, actions(ds))
}

func TestDecide_BlockOpenedAfterCode(t *testing.T) {
	lines := []string{"int x = 1; /* explain", "   the value */", "return x;"}
	classified, ds := decide("c", lines, Rules{StripBlockComments: true, SamplingRatio: 1})
	require.Equal(t, comment.Mixed, classified[0].Label)
	assert.Equal(t, []Action{ActionSplit, ActionDrop, ActionKeep}, actions(ds))
	assert.Equal(t, ReasonBlock, ds[0].Reason)
	assert.Equal(t, ReasonBlock, ds[1].Reason)
	assert.Equal(t, "int x = 1;", lines[0][:ds[0].Split])
}

func TestDecide_CodeAfterBlockClose(t *testing.T) {
	lines := []string{"/* setup", "   done */ int y;", "return y;"}
	_, ds := decide("c", lines, Rules{StripBlockComments: true})
	assert.Equal(t, []Action{ActionDrop, ActionSplitHead, ActionKeep}, actions(ds))
	assert.Equal(t, ReasonBlock, ds[1].Reason)
	assert.Equal(t, " int y;", lines[1][ds[1].Split:])
	assert.Equal(t, "split-head", ds[1].Action.String())
}

func TestDecide_ForeignOverridesSampling(t *testing.T) {
	lines := []string{
		"# This comment is written in English",
		"# 这是一个中文注释",
		"x = 1  # and this trailing one is English too",
		"/* short */",
	}
	classified, ds := decide("python", lines, Rules{StripForeignComments: true, SamplingRatio: 0})
	require.Equal(t, comment.Mixed, classified[2].Label)
	assert.Equal(t, []Action{ActionDrop, ActionKeep, ActionSplit, ActionKeep}, actions(ds))
	assert.Equal(t, classified[2].Split, ds[2].Split)
	assert.Equal(t, ReasonForeign, ds[2].Reason)
}

func TestDecide_ForeignDoesNotAdvanceCounter(t *testing.T) {
	lines := []string{
		"# Foreign text written in English here",
		"# 第一条注释",
		"# 第二条注释",
	}
	_, ds := decide("python", lines, Rules{StripForeignComments: true, SamplingRatio: 2})
	// The foreign line is not eligible for sampling, so the counter hits 2
	// on the third line.
	assert.Equal(t, []Action{ActionDrop, ActionKeep, ActionDrop}, actions(ds))
	assert.Equal(t, ReasonSampled, ds[2].Reason)
}

func TestDecide_ForeignBlockUsesSpanLang(t *testing.T) {
	lines := []string{"/*", " * Returns the handle", " * count", " */"}
	_, ds := decide("c", lines, Rules{StripForeignComments: true})
	assert.Equal(t, []Action{ActionDrop, ActionDrop, ActionDrop, ActionDrop}, actions(ds))
}

func TestRules_Validate(t *testing.T) {
	require.NoError(t, Rules{}.Validate())
	err := Rules{SamplingRatio: -1}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestRules_Describe(t *testing.T) {
	assert.Equal(t, "nothing", Rules{}.Describe())
	assert.Equal(t, "block comments, 1 in 3 single-line comments",
		Rules{StripBlockComments: true, SamplingRatio: 3}.Describe())
	assert.False(t, Rules{}.Active())
	assert.True(t, Rules{SamplingRatio: 1}.Active())
}

func TestHeaderAction(t *testing.T) {
	assert.Equal(t, ActionKeep, HeaderAction(Rules{}))
	assert.Equal(t, ActionDrop, HeaderAction(Rules{StripFileHeader: true}))
}
