package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gamedb/gridview/pkg/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const ContentTypeJSON = "application/json; charset=utf-8"

var ErrRelativeURL = errors.New("url must be absolute")

// HTTPError is returned for any non 2xx response
type HTTPError struct {
	Code int
	Link string
}

func (e HTTPError) Error() string {
	return "http " + strconv.Itoa(e.Code) + " from " + e.Link
}

// PostJSON sends one request, no retries
func PostJSON(ctx context.Context, client *http.Client, link string, data interface{}) (body []byte, err error) {

	u, err := url.Parse(link)
	if err != nil {
		return nil, err
	}

	if !u.IsAbs() {
		return nil, ErrRelativeURL
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Header.Set("Accept", "application/json")

	if client == nil {
		client = &http.Client{Timeout: time.Second * 10}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	defer Close(resp.Body)

	body, err = ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, HTTPError{Code: resp.StatusCode, Link: u.String()}
	}

	return body, nil
}

// PostJSONWithRetry is for idempotent calls only
func PostJSONWithRetry(ctx context.Context, client *http.Client, link string, data interface{}, retries uint64) (body []byte, err error) {

	operation := func() (err error) {

		body, err = PostJSON(ctx, client, link, data)

		// 4xx responses won't improve on retry
		var httpErr HTTPError
		if errors.As(err, &httpErr) && httpErr.Code >= 400 && httpErr.Code < 500 {
			return backoff.Permanent(err)
		}

		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Millisecond * 100

	err = backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx),
		func(err error, t time.Duration) { log.Info("retrying post", zap.String("url", link), zap.Error(err)) },
	)

	return body, err
}
