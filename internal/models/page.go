package models

// Sort mirrors the sort descriptor the backend embeds in its paging
// metadata. Sorting is applied client-side in this application, so
// requests never populate it; it is decoded for completeness only.
type Sort struct {
	Sorted   bool `json:"sorted"`
	Unsorted bool `json:"unsorted"`
	Empty    bool `json:"empty"`
}

// Pageable is the request-side pagination descriptor echoed back by the
// backend inside every page response.
type Pageable struct {
	PageNumber int  `json:"pageNumber"`
	PageSize   int  `json:"pageSize"`
	Offset     int  `json:"offset"`
	Paged      bool `json:"paged"`
	Unpaged    bool `json:"unpaged"`
	Sort       Sort `json:"sort"`
}

// Page is a single page of a larger server-side collection.
// Content holds at most PageSize elements; TotalPages covers the whole
// collection, not just this slice of it.
type Page[T any] struct {
	Content       []T      `json:"content"`
	TotalPages    int      `json:"totalPages"`
	TotalElements int64    `json:"totalElements"`
	Number        int      `json:"number"`
	Size          int      `json:"size"`
	First         bool     `json:"first"`
	Last          bool     `json:"last"`
	Pageable      Pageable `json:"pageable"`
}
