// Package usecase implements the business logic for the offense feature.
package usecase

import (
	"sort"
	"strings"
)

// ValidationError lists the messages of every rejected field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid offense: " + strings.Join(names, ", ")
}
