package command_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/mind/internal/argmatch"
	"github.com/go-ports/mind/internal/command"
	"github.com/go-ports/mind/internal/models"
	"github.com/go-ports/mind/internal/output"
	"github.com/go-ports/mind/internal/storage"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type harness struct {
	d     *command.Dispatcher
	store *storage.Memory
}

func newHarness() *harness {
	return &harness{d: command.New(nil), store: storage.NewMemory()}
}

// run executes args and returns the info lines it produced.
func (h *harness) run(c *qt.C, args ...string) []string {
	c.TB.Helper()
	var rec output.Recorder
	c.Assert(h.d.Execute(args, h.store, &rec), qt.IsNil)
	return rec.Messages(output.LevelInfo)
}

// fail executes args, expects an error and returns it.
func (h *harness) fail(c *qt.C, args ...string) error {
	c.TB.Helper()
	var rec output.Recorder
	err := h.d.Execute(args, h.store, &rec)
	c.Assert(err, qt.IsNotNil)
	return err
}

func (h *harness) memories(c *qt.C, space string) []string {
	c.TB.Helper()
	b, err := h.store.GetBrain()
	c.Assert(err, qt.IsNil)
	s, ok := b.Space(space)
	c.Assert(ok, qt.IsTrue)
	return s.Memories
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestExecute_EmptyArgs(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	err := h.fail(c)
	c.Assert(errors.Is(err, models.ErrInvalidInput), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "No arguments provided")
	c.Assert(h.store.Saves(), qt.Equals, 0)
}

func TestExecute_UnknownCommand(t *testing.T) {
	c := qt.New(t)
	h := newHarness()
	h.run(c, "create", "work", "Work notes")

	cases := [][]string{
		{"frobnicate"},
		{"create", "only-one-arg"},
		{"list", "extra"},
		{"--help"},
	}
	for _, args := range cases {
		err := h.fail(c, args...)
		c.Assert(errors.Is(err, models.ErrUnknownCommand), qt.IsTrue)
		c.Assert(err.Error(), qt.Equals,
			"Unknown command "+args[0]+". Run mind help for getting the list of valid commands")
	}
	c.Assert(h.store.Saves(), qt.Equals, 1)
}

func TestExecute_FirstMatchWinsWithoutFallthrough(t *testing.T) {
	c := qt.New(t)

	boom := errors.New("boom")
	var calls []string
	d := command.NewDispatcher(nil,
		command.Command{
			Name:  "first",
			Shape: argmatch.MustParse("go <x>"),
			Run: func(p command.Params, _ storage.Store, _ output.Sink) error {
				calls = append(calls, "first:"+p["x"])
				return boom
			},
		},
		command.Command{
			Name:  "second",
			Shape: argmatch.MustParse("go <y>"),
			Run: func(command.Params, storage.Store, output.Sink) error {
				calls = append(calls, "second")
				return nil
			},
		},
	)

	err := d.Execute([]string{"go", "now"}, storage.NewMemory(), &output.Recorder{})
	c.Assert(err, qt.Equals, boom)
	c.Assert(calls, qt.DeepEquals, []string{"first:now"})
}

func TestCatalogue_Order(t *testing.T) {
	c := qt.New(t)

	var names, shapes []string
	for _, cmd := range command.New(nil).Commands() {
		names = append(names, cmd.Name)
		shapes = append(shapes, cmd.Shape.Render())
	}
	c.Assert(names, qt.DeepEquals, []string{
		"help", "create", "list", "read", "rename", "add", "remove", "delete", "describe", "reorder",
	})
	c.Assert(shapes, qt.DeepEquals, []string{
		"help|h",
		"create|c <space> <description>",
		"list|ls|l",
		"read|r <space>",
		"rename|rn <old> <new>",
		"add|a <space> <value>",
		"remove|rm <space> <index>",
		"delete|d <space>",
		"describe|ds <space> <description>",
		"reorder|ro <space> <from> <to>",
	})
}

// ---------------------------------------------------------------------------
// Help
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	for _, tok := range []string{"help", "h"} {
		lines := h.run(c, tok)
		c.Assert(lines[0], qt.Equals, "Allowed commands:")
		c.Assert(lines, qt.HasLen, 11)
		c.Assert(lines[1], qt.Equals, "   mind help|h - Show this list of commands")
		c.Assert(lines, qt.Contains, "   mind create|c <space> <description> - Create a new space")
		c.Assert(lines[10], qt.Matches, `   mind reorder\|ro <space> <from> <to> - .*`)
	}
	c.Assert(h.store.Saves(), qt.Equals, 0)
}

// ---------------------------------------------------------------------------
// Spaces
// ---------------------------------------------------------------------------

func TestCreateAndList_HappyPath(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	c.Assert(h.run(c, "list"), qt.DeepEquals, []string{"No spaces found"})

	c.Assert(h.run(c, "create", "space1", "Space 1"), qt.DeepEquals, []string{"Space space1 created"})
	c.Assert(h.run(c, "c", "space2", "Space 2"), qt.DeepEquals, []string{"Space space2 created"})
	h.run(c, "create", "bare", "")

	for _, tok := range []string{"list", "ls", "l"} {
		c.Assert(h.run(c, tok), qt.DeepEquals, []string{
			"1. space1: Space 1",
			"2. space2: Space 2",
			"3. bare",
		})
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "work", "Work notes")
	h.run(c, "add", "work", "keep me")
	saves := h.store.Saves()

	err := h.fail(c, "create", "work", "Replacement")
	c.Assert(errors.Is(err, models.ErrAlreadyExists), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "Space work already exists")
	c.Assert(h.store.Saves(), qt.Equals, saves)

	b, _ := h.store.GetBrain()
	s, _ := b.Space("work")
	c.Assert(s.Description, qt.Equals, "Work notes")
	c.Assert(s.Memories, qt.DeepEquals, []string{"keep me"})
}

func TestRead_HappyPath(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "test-space", "A test space")
	c.Assert(h.run(c, "read", "test-space"), qt.DeepEquals, []string{
		"test-space:",
		"   A test space",
		"   > No memories found",
	})

	h.run(c, "add", "test-space", "memory1")
	h.run(c, "a", "test-space", "memory2")
	c.Assert(h.run(c, "r", "test-space"), qt.DeepEquals, []string{
		"test-space:",
		"   A test space",
		"   1. memory1",
		"   2. memory2",
	})

	h.run(c, "create", "plain", "")
	h.run(c, "add", "plain", "only")
	c.Assert(h.run(c, "read", "plain"), qt.DeepEquals, []string{"plain:", "   1. only"})
}

func TestSpaceScopedCommands_NotFound(t *testing.T) {
	c := qt.New(t)
	h := newHarness()
	h.run(c, "create", "other", "")

	cases := [][]string{
		{"read", "ghost"},
		{"rename", "ghost", "spirit"},
		{"add", "ghost", "boo"},
		{"remove", "ghost", "1"},
		{"delete", "ghost"},
		{"describe", "ghost", "scary"},
		{"reorder", "ghost", "1", "2"},
	}
	for _, args := range cases {
		c.Run(args[0], func(c *qt.C) {
			err := h.fail(c, args...)
			c.Assert(errors.Is(err, models.ErrNotFound), qt.IsTrue)
			c.Assert(err, qt.ErrorMatches, "Space ghost does not exist")
		})
	}
	c.Assert(h.store.Saves(), qt.Equals, 1)
}

func TestRename_HappyPath(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "old-space", "An old space")
	h.run(c, "add", "old-space", "kept")
	h.run(c, "create", "after", "")

	c.Assert(h.run(c, "rename", "old-space", "new-space"), qt.DeepEquals,
		[]string{"Space old-space renamed to new-space"})

	b, _ := h.store.GetBrain()
	c.Assert(b.Names(), qt.DeepEquals, []string{"after", "new-space"})
	c.Assert(h.memories(c, "new-space"), qt.DeepEquals, []string{"kept"})
}

func TestRename_SameNameIsNoop(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "s", "d")
	saves := h.store.Saves()

	c.Assert(h.run(c, "rn", "s", "s"), qt.DeepEquals, []string{"Space s renamed to s"})
	c.Assert(h.store.Saves(), qt.Equals, saves)
	b, _ := h.store.GetBrain()
	c.Assert(b.Has("s"), qt.IsTrue)
}

func TestRename_DestinationExists(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "a", "first")
	h.run(c, "create", "b", "second")
	saves := h.store.Saves()

	err := h.fail(c, "rename", "a", "b")
	c.Assert(errors.Is(err, models.ErrAlreadyExists), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "Space b already exists")
	c.Assert(h.store.Saves(), qt.Equals, saves)

	b, _ := h.store.GetBrain()
	sb, _ := b.Space("b")
	c.Assert(sb.Description, qt.Equals, "second")
	c.Assert(b.Names(), qt.DeepEquals, []string{"a", "b"})
}

func TestDelete_HappyPath(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "test-space", "A test space")
	h.run(c, "create", "keep", "")
	c.Assert(h.run(c, "delete", "test-space"), qt.DeepEquals, []string{"Space test-space deleted"})
	h.run(c, "d", "keep")

	b, _ := h.store.GetBrain()
	c.Assert(b.Len(), qt.Equals, 0)
}

func TestDescribe_HappyPath(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "test-space", "A test space")
	c.Assert(h.run(c, "describe", "test-space", "A new description"), qt.DeepEquals,
		[]string{"Space test-space description changed"})
	h.run(c, "ds", "test-space", "Again")

	b, _ := h.store.GetBrain()
	s, _ := b.Space("test-space")
	c.Assert(s.Description, qt.Equals, "Again")
}

// ---------------------------------------------------------------------------
// Memories
// ---------------------------------------------------------------------------

func TestAdd_AppendsInOrder(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "s", "")
	c.Assert(h.run(c, "add", "s", "new memory"), qt.DeepEquals, []string{"Memory added"})
	h.run(c, "add", "s", "new memory")
	h.run(c, "add", "s", "--not-a-flag")

	c.Assert(h.memories(c, "s"), qt.DeepEquals, []string{"new memory", "new memory", "--not-a-flag"})
}

func TestRemove_HappyPath(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "test-space", "")
	h.run(c, "add", "test-space", "memory1")
	h.run(c, "add", "test-space", "memory2")

	c.Assert(h.run(c, "remove", "test-space", "1"), qt.DeepEquals, []string{"Memory removed: memory1"})
	c.Assert(h.memories(c, "test-space"), qt.DeepEquals, []string{"memory2"})

	c.Assert(h.run(c, "rm", "test-space", "1"), qt.DeepEquals, []string{"Memory removed: memory2"})
	c.Assert(h.memories(c, "test-space"), qt.HasLen, 0)
}

func TestRemove_InvalidIndex(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "empty", "")
	h.run(c, "create", "two", "")
	h.run(c, "add", "two", "a")
	h.run(c, "add", "two", "b")
	saves := h.store.Saves()

	cases := []struct {
		space, index string
	}{
		{"empty", "1"},
		{"two", "0"},
		{"two", "3"},
		{"two", "-1"},
		{"two", "one"},
		{"two", "1.5"},
		{"two", ""},
	}
	for _, tc := range cases {
		err := h.fail(c, "remove", tc.space, tc.index)
		c.Assert(errors.Is(err, models.ErrInvalidIndex), qt.IsTrue)
		c.Assert(err.Error(), qt.Equals, "Invalid index "+tc.index+" for space "+tc.space)
	}
	c.Assert(h.store.Saves(), qt.Equals, saves)
	c.Assert(h.memories(c, "two"), qt.DeepEquals, []string{"a", "b"})
}

func TestReorder_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"first to back", "1", "-1", []string{"B", "C", "A"}},
		{"last to front", "3", "0", []string{"C", "A", "B"}},
		{"first to position 2", "1", "2", []string{"B", "A", "C"}},
		{"last to position 2", "3", "2", []string{"A", "C", "B"}},
		{"middle to position 3", "2", "3", []string{"A", "C", "B"}},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			h := newHarness()
			h.run(c, "create", "s", "")
			for _, m := range []string{"A", "B", "C"} {
				h.run(c, "add", "s", m)
			}

			lines := h.run(c, "reorder", "s", tc.from, tc.to)
			c.Assert(h.memories(c, "s"), qt.DeepEquals, tc.want)
			c.Assert(lines, qt.DeepEquals, []string{
				"Memory moved",
				"   1. " + tc.want[0],
				"   2. " + tc.want[1],
				"   3. " + tc.want[2],
			})
		})
	}
}

func TestReorder_InvalidIndex(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "s", "")
	for _, m := range []string{"A", "B", "C"} {
		h.run(c, "add", "s", m)
	}
	saves := h.store.Saves()

	cases := []struct {
		from, to, bad string
	}{
		{"0", "1", "0"},
		{"4", "1", "4"},
		{"x", "1", "x"},
		{"1", "4", "4"},
		{"1", "-2", "-2"},
		{"1", "last", "last"},
	}
	for _, tc := range cases {
		err := h.fail(c, "ro", "s", tc.from, tc.to)
		c.Assert(errors.Is(err, models.ErrInvalidIndex), qt.IsTrue)
		c.Assert(err.Error(), qt.Equals, "Invalid index "+tc.bad+" for space s")
	}
	c.Assert(h.store.Saves(), qt.Equals, saves)
	c.Assert(h.memories(c, "s"), qt.DeepEquals, []string{"A", "B", "C"})
}

// ---------------------------------------------------------------------------
// Storage failures
// ---------------------------------------------------------------------------

func TestMutations_PropagateSaveErrors(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.run(c, "create", "s", "")
	h.run(c, "add", "s", "A")
	h.run(c, "add", "s", "B")
	h.store.SaveErr = errors.New("read-only file system")

	cases := [][]string{
		{"create", "t", ""},
		{"rename", "s", "t"},
		{"add", "s", "C"},
		{"remove", "s", "1"},
		{"delete", "s"},
		{"describe", "s", "x"},
		{"reorder", "s", "1", "-1"},
	}
	for _, args := range cases {
		var rec output.Recorder
		err := h.d.Execute(args, h.store, &rec)
		c.Assert(errors.Is(err, models.ErrIOError), qt.IsTrue, qt.Commentf("%v", args))
		c.Assert(rec.Lines(), qt.HasLen, 0)
	}

	h.store.SaveErr = nil
	c.Assert(h.memories(c, "s"), qt.DeepEquals, []string{"A", "B"})
}
