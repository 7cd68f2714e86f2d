package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// PageSize is the number of items requested per filtered-items page.
const PageSize = 200

// QueryOp is a filtered-items query operator.
type QueryOp string

const (
	OpExists        QueryOp = "exists"
	OpDoesntExist   QueryOp = "doesnt_exist"
	OpEquals        QueryOp = "equals"
	OpNotEquals     QueryOp = "not_equals"
	OpLike          QueryOp = "like"
	OpNotLike       QueryOp = "not_like"
	OpContains      QueryOp = "contains"
	OpDoesntContain QueryOp = "doesnt_contain"
	OpMatches       QueryOp = "matches"
	OpDoesntMatch   QueryOp = "doesnt_match"
)

var queryOps = map[QueryOp]bool{
	OpExists: true, OpDoesntExist: true, OpEquals: true, OpNotEquals: true,
	OpLike: true, OpNotLike: true, OpContains: true, OpDoesntContain: true,
	OpMatches: true, OpDoesntMatch: true,
}

// ParseQueryOp validates an operator name.
func ParseQueryOp(s string) (QueryOp, error) {
	op := QueryOp(s)
	if !queryOps[op] {
		return "", fmt.Errorf("unknown query operator %q", s)
	}
	return op, nil
}

// SearchQuery describes one filtered-items query.
type SearchQuery struct {
	Field       string
	Op          QueryOp
	Value       string
	Collections []string // optional collection UUID filter
}

func (q SearchQuery) values(offset int) url.Values {
	v := url.Values{}
	v.Set("query_field[]", q.Field)
	v.Set("query_op[]", string(q.Op))
	v.Set("query_val[]", q.Value)
	for _, coll := range q.Collections {
		if coll != "" {
			v.Add("collSel[]", coll)
		}
	}
	v.Set("limit", strconv.Itoa(PageSize))
	v.Set("offset", strconv.Itoa(offset))
	return v
}

type filteredItem struct {
	UUID   string `json:"uuid"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Link   string `json:"link"`
}

type filteredItemsResponse struct {
	Items []filteredItem `json:"items"`
}

// FilteredItemSearch pages through /filtered-items and returns the item links
// in server order. Paging stops at the first empty page; links are not deduplicated.
func (c *Client) FilteredItemSearch(ctx context.Context, q SearchQuery) ([]string, error) {
	links := []string{}
	for offset := 0; ; offset += PageSize {
		params := q.values(offset)
		c.logger.Infow("filtered-items", "params", params.Encode())
		var page filteredItemsResponse
		if err := c.doJSON(ctx, http.MethodGet, c.endpoint("/filtered-items", params), nil, &page); err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			return links, nil
		}
		for _, it := range page.Items {
			links = append(links, it.Link)
		}
	}
}
