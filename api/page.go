package api

import (
	"net/url"
	"strconv"
)

// Page is the list envelope shared by the paginated endpoints.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

// ListParams are the pagination members plus endpoint specific filters
// (status_filter, keyword, category ...). Empty filter values are dropped.
type ListParams struct {
	Page     int
	PageSize int
	Filters  map[string]string
}

func (p ListParams) Values() url.Values {
	return p.values("page_size")
}

func (p ListParams) values(sizeKey string) url.Values {
	v := url.Values{}
	for key, value := range p.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set(sizeKey, strconv.Itoa(p.PageSize))
	}
	return v
}
