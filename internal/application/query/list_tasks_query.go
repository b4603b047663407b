package query

// ListTasksQuery mirrors GET /tasks query parameters. All fields are
// optional and compose freely.
type ListTasksQuery struct {
	Completed *bool
	SortBy    string
	Desc      bool
	Limit     int
	Skip      int
}
