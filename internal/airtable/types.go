package airtable

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// Record is one row of a table. Fields stays raw JSON so each consumer can
// decode into its own column struct.
type Record struct {
	ID          string          `json:"id"`
	CreatedTime time.Time       `json:"createdTime"`
	Fields      json.RawMessage `json:"fields"`
}

// ListResponse is a page of records. A non-empty Offset means more pages
// exist and can be fetched by passing it back in ListOptions.
type ListResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// SortField orders list results by one column.
type SortField struct {
	Field     string
	Direction string // "asc" or "desc"
}

// ListOptions are the query parameters of the list-records endpoint.
type ListOptions struct {
	Fields          []string
	FilterByFormula string
	MaxRecords      int
	PageSize        int
	Sort            []SortField
	View            string
	Offset          string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	for _, f := range o.Fields {
		v.Add("fields[]", f)
	}
	if o.FilterByFormula != "" {
		v.Set("filterByFormula", o.FilterByFormula)
	}
	if o.MaxRecords > 0 {
		v.Set("maxRecords", strconv.Itoa(o.MaxRecords))
	}
	if o.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	for i, s := range o.Sort {
		prefix := "sort[" + strconv.Itoa(i) + "]"
		v.Set(prefix+"[field]", s.Field)
		if s.Direction != "" {
			v.Set(prefix+"[direction]", s.Direction)
		}
	}
	if o.View != "" {
		v.Set("view", o.View)
	}
	if o.Offset != "" {
		v.Set("offset", o.Offset)
	}
	return v
}

type createRequest struct {
	Fields any `json:"fields"`
}

type updateRequest struct {
	Fields any `json:"fields"`
}
