package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringList is stored as a comma-separated column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *StringList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan StringList: unsupported type %T", src)
	}
	*l = SplitList(s)
	return nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) StringList {
	var out StringList
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Page is a 1-based pagination window.
type Page struct {
	Page int
	Size int
}

func (p Page) Offset() int { return (p.Page - 1) * p.Size }

// ListResult wraps a page of items with the total count.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}
