package argmatch_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/mind/internal/argmatch"
)

// ---------------------------------------------------------------------------
// Matches
// ---------------------------------------------------------------------------

func TestMatches_HappyPath(t *testing.T) {
	c := qt.New(t)

	list := argmatch.New(argmatch.Literal("list|ls|l"))
	rename := argmatch.New(argmatch.Literal("rename|rn"), argmatch.Param("old"), argmatch.Param("new"))

	cases := []struct {
		name  string
		shape *argmatch.Shape
		args  []string
		want  bool
	}{
		{"first alternative", list, []string{"list"}, true},
		{"middle alternative", list, []string{"ls"}, true},
		{"last alternative", list, []string{"l"}, true},
		{"unknown literal", list, []string{"lst"}, false},
		{"literal is case sensitive", list, []string{"LIST"}, false},
		{"too many args", list, []string{"list", "extra"}, false},
		{"too few args", rename, []string{"rn", "a"}, false},
		{"params accept anything", rename, []string{"rn", "-x", ""}, true},
		{"literal position checked", rename, []string{"a", "b", "c"}, false},
		{"empty args against non-empty shape", list, []string{}, false},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(tc.shape.Matches(tc.args), qt.Equals, tc.want)
		})
	}
}

func TestMatches_EmptyShape(t *testing.T) {
	c := qt.New(t)

	empty := argmatch.New()
	c.Assert(empty.Matches(nil), qt.IsTrue)
	c.Assert(empty.Matches([]string{}), qt.IsTrue)
	c.Assert(empty.Matches([]string{"help"}), qt.IsFalse)
}

// ---------------------------------------------------------------------------
// Params
// ---------------------------------------------------------------------------

func TestParams_HappyPath(t *testing.T) {
	c := qt.New(t)

	s := argmatch.MustParse("reorder|ro <space> <from> <to>")
	args := []string{"ro", "work", "1", "-1"}
	c.Assert(s.Matches(args), qt.IsTrue)
	c.Assert(s.Params(args), qt.DeepEquals, map[string]string{
		"space": "work",
		"from":  "1",
		"to":    "-1",
	})

	help := argmatch.MustParse("help|h")
	c.Assert(help.Params([]string{"h"}), qt.HasLen, 0)
}

// ---------------------------------------------------------------------------
// Render / Parse
// ---------------------------------------------------------------------------

func TestRender_HappyPath(t *testing.T) {
	c := qt.New(t)

	s := argmatch.New(argmatch.Literal("add|a"), argmatch.Param("space"), argmatch.Param("value"))
	c.Assert(s.Render(), qt.Equals, "add|a <space> <value>")
	c.Assert(argmatch.New().Render(), qt.Equals, "")
}

func TestParse_RoundTripsRender(t *testing.T) {
	c := qt.New(t)

	for _, pattern := range []string{
		"help|h",
		"create|c <space> <description>",
		"list|ls|l",
		"reorder|ro <space> <from> <to>",
	} {
		s, err := argmatch.Parse(pattern)
		c.Assert(err, qt.IsNil)
		c.Assert(s.Render(), qt.Equals, pattern)
	}
}

func TestParse_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := argmatch.Parse("rename <name> <name>")
	c.Assert(err, qt.ErrorMatches, `argmatch.Parse: parameter name declared twice .*`)

	_, err = argmatch.Parse("add <>")
	c.Assert(err, qt.ErrorMatches, `argmatch.Parse: empty parameter name .*`)
}

func TestNew_DuplicateParamPanics(t *testing.T) {
	c := qt.New(t)

	c.Assert(func() {
		argmatch.New(argmatch.Literal("x"), argmatch.Param("a"), argmatch.Param("a"))
	}, qt.PanicMatches, `argmatch: parameter a declared twice`)
}
