package models

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps Offset and Page+1 within int for any allowed size.
	MaxPage = math.MaxInt/MaxPageSize - 1
)

// Pageable is a zero-based page request.
type Pageable struct {
	Page int
	Size int
}

// NewPageable clamps page to 0..MaxPage and size to 1..MaxPageSize, using
// DefaultPageSize for non-positive sizes.
func NewPageable(page, size int) Pageable {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Pageable{Page: page, Size: size}
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if pageable.Size > 0 {
		totalPages = int((total + int64(pageable.Size) - 1) / int64(pageable.Size))
	}

	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        pageable.Page,
		Size:          pageable.Size,
		First:         pageable.Page == 0,
		Last:          pageable.Page+1 >= totalPages,
		Empty:         len(content) == 0,
	}
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[T, U any](page Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, fn(item))
	}

	return Page[U]{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Number:        page.Number,
		Size:          page.Size,
		First:         page.First,
		Last:          page.Last,
		Empty:         page.Empty,
	}
}
