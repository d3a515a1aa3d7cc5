package datatable

type Row []string

// RowBatch is the result handed back to the widget for one draw
type RowBatch struct {
	Data            []Row `json:"data"`
	RecordsTotal    int64 `json:"recordsTotal"`
	RecordsFiltered int64 `json:"recordsFiltered"`
	Draw            int   `json:"draw"`
}

// NewRowBatch builds a batch for a draw. There is no filtering on the remote
// side, so the filtered count is always the total.
func NewRowBatch(params RequestParams, rows []Row, total int64) RowBatch {

	if rows == nil {
		rows = []Row{}
	}

	return RowBatch{
		Data:            rows,
		RecordsTotal:    total,
		RecordsFiltered: total,
		Draw:            params.Draw(),
	}
}

// EmptyRowBatch is returned when the remote call fails
func EmptyRowBatch(params RequestParams) RowBatch {
	return NewRowBatch(params, nil, 0)
}

// ServerResult is the remote source's response, one page of ids
type ServerResult struct {
	List         []ID  `json:"list"`
	FullListSize int64 `json:"fullListSize"`
}
