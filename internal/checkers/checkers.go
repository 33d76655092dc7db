// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that decodes got (a string or []byte
// holding JSON), evaluates path against it and compares the result with the
// wanted value using qt.DeepEquals. Numbers decode as float64.
//
//	c.Assert(text, checkers.JSONPathEquals("$.total"), float64(2))
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

type jsonPathChecker struct {
	path string
}

func (*jsonPathChecker) ArgNames() []string {
	return []string{"got", "want"}
}

func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("first argument is not a string or []byte; got %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}

	note("path", c.path)
	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		return fmt.Errorf("cannot evaluate path: %w", err)
	}
	note("value", value)
	return qt.DeepEquals.Check(value, args, note)
}
