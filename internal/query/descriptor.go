// Package query describes one list request (search, sort, page) and applies it
// to a collection of records.
package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageSize    = 10
	DefaultMaxPageSize = 50
)

var (
	ErrInvalidSortColumn    = errors.New("invalid sort column")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	ErrInvalidPageNumber    = errors.New("page number must be a positive integer")
	ErrInvalidPageSize      = errors.New("invalid page size")
)

// InputError reports which caller-supplied parameter was rejected.
type InputError struct {
	Param string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Param, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// IsInputError reports whether err was caused by a malformed descriptor.
func IsInputError(err error) bool {
	var target *InputError
	return errors.As(err, &target)
}

// Column is the closed set of sortable attributes.
type Column int

const (
	ColumnNone Column = iota
	ColumnName
	ColumnDescription
	ColumnCategory
)

func (c Column) String() string {
	switch c {
	case ColumnName:
		return "Name"
	case ColumnDescription:
		return "Description"
	case ColumnCategory:
		return "Category"
	}
	return ""
}

// ParseColumn maps a caller-supplied column name onto the allow-list.
// An empty name means "no sorting".
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ColumnNone, nil
	case "name":
		return ColumnName, nil
	case "description":
		return ColumnDescription, nil
	case "category":
		return ColumnCategory, nil
	}
	return ColumnNone, &InputError{Param: "sortBy", Err: fmt.Errorf("%w %q, allowed: Name, Description, Category", ErrInvalidSortColumn, s)}
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// ParseDirection accepts ASC/DESC in any case and the numeric forms 0/1.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC", "0":
		return Ascending, nil
	case "DESC", "1":
		return Descending, nil
	}
	return Ascending, &InputError{Param: "sortDirection", Err: fmt.Errorf("%w %q", ErrInvalidSortDirection, s)}
}

// Descriptor is one list request. PageNumber is 1-based.
type Descriptor struct {
	SearchPhrase  string
	SortBy        Column
	SortDirection Direction
	PageNumber    int
	PageSize      int
}

// Validate rejects descriptors that must not reach storage. A maxPageSize of
// zero or less leaves the page size unbounded.
func (d Descriptor) Validate(maxPageSize int) error {
	if d.PageNumber <= 0 {
		return &InputError{Param: "pageNumber", Err: ErrInvalidPageNumber}
	}
	if d.PageSize <= 0 {
		return &InputError{Param: "pageSize", Err: fmt.Errorf("%w: must be positive", ErrInvalidPageSize)}
	}
	if maxPageSize > 0 && d.PageSize > maxPageSize {
		return &InputError{Param: "pageSize", Err: fmt.Errorf("%w: must not exceed %d", ErrInvalidPageSize, maxPageSize)}
	}
	if d.PageNumber > math.MaxInt/d.PageSize {
		return &InputError{Param: "pageNumber", Err: fmt.Errorf("%w: out of range", ErrInvalidPageNumber)}
	}
	switch d.SortBy {
	case ColumnNone, ColumnName, ColumnDescription, ColumnCategory:
	default:
		return &InputError{Param: "sortBy", Err: ErrInvalidSortColumn}
	}
	if d.SortDirection != Ascending && d.SortDirection != Descending {
		return &InputError{Param: "sortDirection", Err: ErrInvalidSortDirection}
	}
	return nil
}

// Offset is the number of matching records before the requested page. It
// saturates at math.MaxInt instead of wrapping.
func (d Descriptor) Offset() int {
	if d.PageNumber <= 0 || d.PageSize <= 0 {
		return 0
	}
	if d.PageNumber-1 > math.MaxInt/d.PageSize {
		return math.MaxInt
	}
	return (d.PageNumber - 1) * d.PageSize
}

// FromParams builds a Descriptor from request parameters. Missing page
// parameters fall back to page 1 and DefaultPageSize; present but malformed
// values are rejected.
func FromParams(get func(key string) string) (Descriptor, error) {
	d := Descriptor{
		SearchPhrase: strings.TrimSpace(get("searchPhrase")),
		PageNumber:   1,
		PageSize:     DefaultPageSize,
	}

	var err error
	if d.SortBy, err = ParseColumn(get("sortBy")); err != nil {
		return d, err
	}
	if d.SortDirection, err = ParseDirection(get("sortDirection")); err != nil {
		return d, err
	}
	if d.PageNumber, err = intParam(get, "pageNumber", 1, ErrInvalidPageNumber); err != nil {
		return d, err
	}
	if d.PageSize, err = intParam(get, "pageSize", DefaultPageSize, ErrInvalidPageSize); err != nil {
		return d, err
	}
	return d, nil
}

func intParam(get func(string) string, key string, fallback int, sentinel error) (int, error) {
	raw := strings.TrimSpace(get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InputError{Param: key, Err: fmt.Errorf("%w: %q is not an integer", sentinel, raw)}
	}
	return n, nil
}
