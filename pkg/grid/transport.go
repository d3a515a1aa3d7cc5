package grid

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/helpers"
	"github.com/pkg/errors"
)

var ErrNoList = errors.New("result has no list")

// Transport makes the one remote call of a fetch
type Transport interface {
	Post(ctx context.Context, url string, params datatable.RequestParams) (datatable.ServerResult, error)
}

// HTTPTransport posts the params as JSON. Any failure, including a non 2xx
// status or a body that isn't a result, is returned as an error.
type HTTPTransport struct {
	Client *http.Client
}

func NewHTTPTransport(timeout time.Duration) HTTPTransport {
	return HTTPTransport{Client: &http.Client{Timeout: timeout}}
}

func (t HTTPTransport) Post(ctx context.Context, url string, params datatable.RequestParams) (result datatable.ServerResult, err error) {

	body, err := helpers.PostJSON(ctx, t.Client, url, params)
	if err != nil {
		return result, err
	}

	var decoded struct {
		List         *[]datatable.ID `json:"list"`
		FullListSize int64           `json:"fullListSize"`
	}

	err = json.Unmarshal(body, &decoded)
	if err != nil {
		return result, errors.Wrap(err, "decoding result")
	}

	if decoded.List == nil {
		return result, ErrNoList
	}

	result.List = *decoded.List
	result.FullListSize = decoded.FullListSize

	return result, nil
}
