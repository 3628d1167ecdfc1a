package interpreter

import (
	"sort"

	"github.com/numerus-lang/numerus/internal/errors"
)

// Environment maps variable names to values for one session.
type Environment struct {
	variables map[string]Value
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{variables: make(map[string]Value)}
}

// Declare binds a new name. Declaring an existing name fails and leaves the
// current value untouched.
func (e *Environment) Declare(name string, value Value) error {
	if _, exists := e.variables[name]; exists {
		return errors.VariableAlreadyDeclared(name)
	}
	e.variables[name] = value
	return nil
}

// Assign replaces the value of an existing name.
func (e *Environment) Assign(name string, value Value) error {
	if _, exists := e.variables[name]; !exists {
		return errors.UndefinedVariable(name)
	}
	e.variables[name] = value
	return nil
}

// Get returns the value bound to name.
func (e *Environment) Get(name string) (Value, error) {
	value, exists := e.variables[name]
	if !exists {
		return nil, errors.UndefinedVariable(name)
	}
	return value, nil
}

func (e *Environment) Contains(name string) bool {
	_, exists := e.variables[name]
	return exists
}

func (e *Environment) Len() int { return len(e.variables) }

// Names returns the declared names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.variables))
	for name := range e.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the current bindings.
func (e *Environment) Snapshot() map[string]Value {
	snapshot := make(map[string]Value, len(e.variables))
	for name, value := range e.variables {
		snapshot[name] = value
	}
	return snapshot
}
