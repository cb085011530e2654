package taskfile

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/critpath/internal/task"
)

// taskSpec is one task in a TOML or YAML file.
type taskSpec struct {
	Name     string   `toml:"name" yaml:"name"`
	Duration *int64   `toml:"duration" yaml:"duration"`
	After    []string `toml:"after" yaml:"after"`
}

type tomlFile struct {
	Task []taskSpec `toml:"task"`
}

type yamlFile struct {
	Tasks []taskSpec `yaml:"tasks"`
}

func parseTOML(data []byte) (*Document, error) {
	var f tomlFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, &SyntaxError{Line: row, Column: col, Msg: de.Error(), Err: err}
		}
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, &SyntaxError{Msg: "unknown field in TOML task file", Err: err}
		}
		return nil, &SyntaxError{Msg: "decoding TOML", Err: err}
	}
	return fromSpecs(f.Task)
}

func parseYAML(data []byte) (*Document, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &SyntaxError{Msg: "decoding YAML: " + err.Error(), Err: err}
	}
	return fromSpecs(f.Tasks)
}

func fromSpecs(specs []taskSpec) (*Document, error) {
	doc := &Document{}
	for i, spec := range specs {
		name, err := task.NewLabel(spec.Name)
		if err != nil {
			return nil, &SyntaxError{Msg: fmt.Sprintf("task %d: %v", i+1, err), Err: err}
		}
		if spec.Duration == nil {
			return nil, &SyntaxError{Msg: fmt.Sprintf("task %q has no duration", spec.Name)}
		}
		if d := *spec.Duration; d < 0 || d > math.MaxUint16 {
			return nil, &SyntaxError{Msg: fmt.Sprintf("task %q: duration %d is out of range 0-65535", spec.Name, d)}
		}
		after := make([]task.Label, 0, len(spec.After))
		for _, a := range spec.After {
			l, err := task.NewLabel(a)
			if err != nil {
				return nil, &SyntaxError{Msg: fmt.Sprintf("task %q: after: %v", spec.Name, err), Err: err}
			}
			after = append(after, l)
		}
		doc.declare(name, task.Duration(*spec.Duration), after, 0)
	}
	return doc, nil
}
