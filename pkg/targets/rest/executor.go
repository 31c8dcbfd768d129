package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/tdbench/tdbench/pkg/targets/common"
)

const (
	sqlPath     = "/rest/sql"
	contentType = "text/plain"
)

// ServerError is a statement rejected by the server. Code and Desc come
// from the response envelope.
type ServerError struct {
	Code int
	Desc string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error 0x%x: %s", e.Code, e.Desc)
}

// response is the JSON envelope of every REST answer.
type response struct {
	Code int             `json:"code"`
	Desc string          `json:"desc"`
	Data [][]interface{} `json:"data"`
	Rows int             `json:"rows"`
}

// Executor runs SQL statements over REST. It implements common.Executor.
type Executor struct {
	client   *common.HTTPClient
	printSQL bool
}

// NewExecutor returns an Executor posting through client.
func NewExecutor(client *common.HTTPClient, printSQL bool) *Executor {
	return &Executor{client: client, printSQL: printSQL}
}

func (e *Executor) Exec(ctx context.Context, sql string) error {
	_, err := e.do(ctx, "", sql)
	return err
}

func (e *Executor) QueryColumn(ctx context.Context, sql string) ([]string, error) {
	r, err := e.do(ctx, "", sql)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(r.Data))
	for _, row := range r.Data {
		if len(row) > 0 {
			out = append(out, fmt.Sprint(row[0]))
		}
	}
	return out, nil
}

// Close is a no-op: connections belong to the HTTP client.
func (e *Executor) Close() error {
	return nil
}

// do posts sql, in the context of db when not empty, and decodes the envelope.
func (e *Executor) do(ctx context.Context, db, sql string) (*response, error) {
	common.LogSQL(e.printSQL, sql)
	path := sqlPath
	if db != "" {
		path += "/" + db
	}
	status, body, err := e.client.Post(ctx, path, contentType, []byte(sql))
	if err != nil {
		return nil, errors.Wrap(err, "rest request failed")
	}
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, errors.Wrapf(err, "invalid rest response (status %d): %s", status, body)
	}
	if r.Code != 0 {
		return nil, &ServerError{Code: r.Code, Desc: r.Desc}
	}
	return &r, nil
}
