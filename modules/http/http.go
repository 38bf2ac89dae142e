// Package httpmod provides the HTTP helper builtins. Responses are records
// with status, body and headers fields.
package httpmod

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "http",
		Funcs: []modules.FuncDef{
			{Name: "http_get", Arity: 1, Fn: http_get},
			{Name: "http_post", Arity: 2, Fn: http_post},
		},
	})
}

// httpErr unwraps the url/net error layers for human-friendly output.
func httpErr(fname string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		err = netErr.Err
	}
	return fmt.Errorf("%s failed: %v", fname, err)
}

func doRequest(fname, method, rawURL, body string) (interp.Value, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, rawURL, bodyReader)
	if err != nil {
		return nil, httpErr(fname, err)
	}
	if body != "" && method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, httpErr(fname, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httpErr(fname, err)
	}

	headers := &interp.Map{}
	for key, vals := range resp.Header {
		headers.Set(&interp.String{Value: key}, &interp.String{Value: strings.Join(vals, ", ")})
	}

	rec := interp.NewRecord()
	rec.Set("status", &interp.Int{Value: int64(resp.StatusCode)})
	rec.Set("body", &interp.String{Value: string(respBody)})
	rec.Set("headers", headers)
	return rec, nil
}

func http_get(args []interp.Value) (interp.Value, error) {
	rawURL, err := modules.StringArg("http_get", args[0])
	if err != nil {
		return nil, err
	}
	return doRequest("http_get", http.MethodGet, rawURL, "")
}

func http_post(args []interp.Value) (interp.Value, error) {
	rawURL, err := modules.StringArg("http_post", args[0])
	if err != nil {
		return nil, err
	}
	body, err := modules.StringArg("http_post", args[1])
	if err != nil {
		return nil, err
	}
	return doRequest("http_post", http.MethodPost, rawURL, body)
}
