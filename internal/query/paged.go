package query

import "math"

// PagedResult is one page of items plus the size of the whole filtered view.
type PagedResult[T any] struct {
	Items           []T `json:"items"`
	TotalPages      int `json:"totalPages"`
	ItemFrom        int `json:"itemFrom"`
	ItemTo          int `json:"itemTo"`
	TotalItemsCount int `json:"totalItemsCount"`
	PageSize        int `json:"pageSize"`
	PageNumber      int `json:"pageNumber"`
}

func NewPagedResult[T any](items []T, totalCount, pageSize, pageNumber int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	res := PagedResult[T]{
		Items:           items,
		TotalItemsCount: totalCount,
		PageSize:        pageSize,
		PageNumber:      pageNumber,
	}
	if pageSize > 0 {
		res.TotalPages = (totalCount + pageSize - 1) / pageSize
		if pageNumber > 0 && pageNumber > math.MaxInt/pageSize {
			res.ItemFrom, res.ItemTo = math.MaxInt, math.MaxInt
			return res
		}
		res.ItemFrom = pageSize*(pageNumber-1) + 1
		res.ItemTo = res.ItemFrom + pageSize - 1
	}
	return res
}
