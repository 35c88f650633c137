package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

// fieldErrors collects messages and turns into an error only when non-empty.
type fieldErrors map[string]string

func (f fieldErrors) require(name, value string) {
	if strings.TrimSpace(value) == "" {
		f[name] = name + " is required"
	}
}

func (f fieldErrors) maxLen(name, value string, n int) {
	if len([]rune(value)) > n {
		f[name] = fmt.Sprintf("%s must be at most %d characters", name, n)
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
