package command

import (
	"fmt"
	"strconv"

	"github.com/go-ports/mind/internal/argmatch"
	"github.com/go-ports/mind/internal/models"
	"github.com/go-ports/mind/internal/output"
	"github.com/go-ports/mind/internal/storage"
)

// catalogue lists every command in dispatch order.
func (d *Dispatcher) catalogue() []Command {
	return []Command{
		{Name: "help", Shape: argmatch.MustParse("help|h"), Description: "Show this list of commands", Run: d.help},
		{Name: "create", Shape: argmatch.MustParse("create|c <space> <description>"), Description: "Create a new space", Run: createSpace},
		{Name: "list", Shape: argmatch.MustParse("list|ls|l"), Description: "List all spaces", Run: listSpaces},
		{Name: "read", Shape: argmatch.MustParse("read|r <space>"), Description: "Show the memories of a space", Run: readSpace},
		{Name: "rename", Shape: argmatch.MustParse("rename|rn <old> <new>"), Description: "Rename a space", Run: renameSpace},
		{Name: "add", Shape: argmatch.MustParse("add|a <space> <value>"), Description: "Add a memory to a space", Run: addMemory},
		{Name: "remove", Shape: argmatch.MustParse("remove|rm <space> <index>"), Description: "Remove the memory at a position", Run: removeMemory},
		{Name: "delete", Shape: argmatch.MustParse("delete|d <space>"), Description: "Delete a space and its memories", Run: deleteSpace},
		{Name: "describe", Shape: argmatch.MustParse("describe|ds <space> <description>"), Description: "Change the description of a space", Run: describeSpace},
		{Name: "reorder", Shape: argmatch.MustParse("reorder|ro <space> <from> <to>"), Description: "Move a memory to another position (0 = front, -1 = back)", Run: reorderMemory},
	}
}

func (d *Dispatcher) help(_ Params, _ storage.Store, out output.Sink) error {
	out.Info("Allowed commands:")
	for _, c := range d.commands {
		out.Info("   " + c.Usage())
	}
	return nil
}

func createSpace(p Params, store storage.Store, out output.Sink) error {
	if err := store.CreateSpace(p["space"], p["description"]); err != nil {
		return err
	}
	out.Info(fmt.Sprintf("Space %s created", p["space"]))
	return nil
}

func listSpaces(_ Params, store storage.Store, out output.Sink) error {
	b, err := store.GetBrain()
	if err != nil {
		return err
	}
	if b.Len() == 0 {
		out.Info("No spaces found")
		return nil
	}
	for i, name := range b.Names() {
		s, _ := b.Space(name)
		if s.Description == "" {
			out.Info(fmt.Sprintf("%d. %s", i+1, name))
			continue
		}
		out.Info(fmt.Sprintf("%d. %s: %s", i+1, name, s.Description))
	}
	return nil
}

func readSpace(p Params, store storage.Store, out output.Sink) error {
	name := p["space"]
	_, s, err := loadSpace(store, name)
	if err != nil {
		return err
	}
	out.Info(name + ":")
	if s.Description != "" {
		out.Info("   " + s.Description)
	}
	if len(s.Memories) == 0 {
		out.Info("   > No memories found")
		return nil
	}
	writeMemories(out, s)
	return nil
}

func renameSpace(p Params, store storage.Store, out output.Sink) error {
	oldName, newName := p["old"], p["new"]
	b, s, err := loadSpace(store, oldName)
	if err != nil {
		return err
	}
	if oldName != newName {
		if b.Has(newName) {
			return models.SpaceExists(newName)
		}
		b.Delete(oldName)
		b.Put(newName, s)
		if err := store.SaveBrain(b); err != nil {
			return err
		}
	}
	out.Info(fmt.Sprintf("Space %s renamed to %s", oldName, newName))
	return nil
}

func addMemory(p Params, store storage.Store, out output.Sink) error {
	b, s, err := loadSpace(store, p["space"])
	if err != nil {
		return err
	}
	s.Add(p["value"])
	if err := store.SaveBrain(b); err != nil {
		return err
	}
	out.Info("Memory added")
	return nil
}

func removeMemory(p Params, store storage.Store, out output.Sink) error {
	name := p["space"]
	b, s, err := loadSpace(store, name)
	if err != nil {
		return err
	}
	pos, err := position(s, p["index"], name)
	if err != nil {
		return err
	}
	removed := s.RemoveAt(pos)
	if err := store.SaveBrain(b); err != nil {
		return err
	}
	out.Info("Memory removed: " + removed)
	return nil
}

func deleteSpace(p Params, store storage.Store, out output.Sink) error {
	name := p["space"]
	b, _, err := loadSpace(store, name)
	if err != nil {
		return err
	}
	b.Delete(name)
	if err := store.SaveBrain(b); err != nil {
		return err
	}
	out.Info(fmt.Sprintf("Space %s deleted", name))
	return nil
}

func describeSpace(p Params, store storage.Store, out output.Sink) error {
	name := p["space"]
	b, s, err := loadSpace(store, name)
	if err != nil {
		return err
	}
	s.Description = p["description"]
	if err := store.SaveBrain(b); err != nil {
		return err
	}
	out.Info(fmt.Sprintf("Space %s description changed", name))
	return nil
}

func reorderMemory(p Params, store storage.Store, out output.Sink) error {
	name := p["space"]
	b, s, err := loadSpace(store, name)
	if err != nil {
		return err
	}
	from, err := position(s, p["from"], name)
	if err != nil {
		return err
	}
	to, err := strconv.Atoi(p["to"])
	if err != nil || !s.CanMoveTo(to) {
		return models.InvalidIndex(p["to"], name)
	}
	s.Move(from, to)
	if err := store.SaveBrain(b); err != nil {
		return err
	}
	out.Info("Memory moved")
	writeMemories(out, s)
	return nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// loadSpace reads the brain and returns it together with the named space.
func loadSpace(store storage.Store, name string) (*models.Brain, *models.Space, error) {
	b, err := store.GetBrain()
	if err != nil {
		return nil, nil, err
	}
	s, ok := b.Space(name)
	if !ok {
		return nil, nil, models.SpaceNotFound(name)
	}
	return b, s, nil
}

// position parses raw as a 1-based memory position within s.
func position(s *models.Space, raw, space string) (int, error) {
	pos, err := strconv.Atoi(raw)
	if err != nil || !s.InRange(pos) {
		return 0, models.InvalidIndex(raw, space)
	}
	return pos, nil
}

func writeMemories(out output.Sink, s *models.Space) {
	for i, m := range s.Memories {
		out.Info(fmt.Sprintf("   %d. %s", i+1, m))
	}
}
