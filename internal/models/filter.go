package models

// JobFilter carries the optional listing filters. Provided filters combine
// with logical AND; Search matches title OR company OR description.
type JobFilter struct {
	Search    string
	Location  string
	City      string
	Type      string
	MinSalary string
	MaxSalary string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Offset returns the number of records to skip for the 1-indexed page.
func (f JobFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Pagination is the page metadata returned alongside every listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalJobs   int  `json:"totalJobs"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination derives the page metadata from the filter and total count.
func NewPagination(f JobFilter, total int) Pagination {
	totalPages := total / f.Limit
	if total%f.Limit != 0 {
		totalPages++
	}
	return Pagination{
		CurrentPage: f.Page,
		TotalPages:  totalPages,
		TotalJobs:   total,
		HasNext:     f.Offset()+f.Limit < total,
		HasPrev:     f.Page > 1,
	}
}
