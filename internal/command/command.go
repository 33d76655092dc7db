// Package command holds the command catalogue and dispatches argument lists
// to the first command whose shape matches.
package command

import (
	"log/slog"

	"github.com/go-ports/mind/internal/argmatch"
	"github.com/go-ports/mind/internal/models"
	"github.com/go-ports/mind/internal/output"
	"github.com/go-ports/mind/internal/storage"
)

// Program is the name commands are invoked by in help and error text.
const Program = "mind"

// Params maps parameter names to the arguments bound to them.
type Params map[string]string

// Handler runs one command. It reads and writes the brain only through store
// and writes every line of output to out.
type Handler func(p Params, store storage.Store, out output.Sink) error

// Command is one catalogue entry.
type Command struct {
	Name        string
	Shape       *argmatch.Shape
	Description string
	Run         Handler
}

// Usage renders the help line for c.
func (c Command) Usage() string {
	line := Program + " " + c.Shape.Render()
	if c.Description != "" {
		line += " - " + c.Description
	}
	return line
}

// Dispatcher tries its commands in order and runs the first match.
type Dispatcher struct {
	commands []Command
	log      *slog.Logger
}

// NewDispatcher returns a dispatcher over commands, tried in the given order.
// A nil logger falls back to slog.Default.
func NewDispatcher(logger *slog.Logger, commands ...Command) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{commands: commands, log: logger}
}

// New returns a dispatcher over the standard catalogue.
func New(logger *slog.Logger) *Dispatcher {
	d := NewDispatcher(logger)
	d.commands = d.catalogue()
	return d
}

// Commands returns the catalogue in dispatch order.
func (d *Dispatcher) Commands() []Command {
	return append([]Command(nil), d.commands...)
}

// Execute runs the first command whose shape matches args. Handler errors are
// returned as is; later commands are never tried.
func (d *Dispatcher) Execute(args []string, store storage.Store, out output.Sink) error {
	if len(args) == 0 {
		return models.Errorf(models.ErrInvalidInput, "No arguments provided")
	}
	for _, c := range d.commands {
		if !c.Shape.Matches(args) {
			continue
		}
		d.log.Debug("command: dispatch", "command", c.Name, "args", len(args))
		if err := c.Run(Params(c.Shape.Params(args)), store, out); err != nil {
			d.log.Debug("command: failed", "command", c.Name, "err", err)
			return err
		}
		return nil
	}
	return models.Errorf(models.ErrUnknownCommand,
		"Unknown command %s. Run %s help for getting the list of valid commands", args[0], Program)
}
