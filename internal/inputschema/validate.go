package inputschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks JSON documents against a compiled schema.
type Validator struct {
	name     string
	compiled *validator.Schema
}

// Compile prepares s for validation. name identifies the schema in
// error messages.
func Compile(name string, s *jsonschema.Schema) (*Validator, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding schema %s: %w", name, err)
	}

	url := "mem://" + name + ".json"
	c := validator.NewCompiler()
	c.Draft = validator.Draft2020
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return &Validator{name: name, compiled: compiled}, nil
}

// ValidateJSON validates a JSON document.
func (v *Validator) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}
	if err := v.compiled.Validate(doc); err != nil {
		return describe(err)
	}
	return nil
}

// Validate validates a decoded value such as the arguments of a tool call.
func (v *Validator) Validate(args any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding arguments: %w", err)
	}
	return v.ValidateJSON(data)
}

// describe flattens a validation error into one line per leaf cause.
func describe(err error) error {
	var ve *validator.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var lines []string
	var walk func(*validator.ValidationError)
	walk = func(e *validator.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return errors.New(strings.Join(lines, "; "))
}
