package sml

import (
	"bytes"
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/common"
	"github.com/tdbench/tdbench/pkg/targets/constants"
	"github.com/tdbench/tdbench/pkg/targets/rest"
	"github.com/valyala/fasthttp"
)

// ErrUnknownEncoding is returned for schemaless encodings other than
// line, telnet and json.
var ErrUnknownEncoding = errors.New("unknown schemaless encoding")

// ErrReservedTag is returned when a tag is named like the tag carrying the
// child table name.
var ErrReservedTag = errors.New("tag name is reserved by the schemaless protocol")

// NewTarget returns the schemaless protocol for rows of s. The server
// derives tables from the written points, so only the database is created
// up front.
func NewTarget(conf targets.Config, s *schema.Schema) (targets.ImplementedTarget, error) {
	if _, ok := newSerializer(conf.SMLProtocol, s); !ok {
		return nil, errors.Wrapf(ErrUnknownEncoding, "%q, supported: %s", conf.SMLProtocol, strings.Join(constants.SupportedSMLProtocols(), ","))
	}
	for _, f := range s.Tags() {
		if strings.EqualFold(f.Name, childTableTag) {
			return nil, errors.Wrapf(ErrReservedTag, "%q", f.Name)
		}
	}
	return &smlTarget{conf: conf, schema: s}, nil
}

type smlTarget struct {
	conf   targets.Config
	schema *schema.Schema
	// dial replaces TCP in tests
	dial fasthttp.DialFunc
}

func (t *smlTarget) Protocol() targets.Protocol {
	return targets.Schemaless
}

func (t *smlTarget) RequiresSchema() bool {
	return false
}

func (t *smlTarget) NewWriter(_ int) (targets.Writer, error) {
	ser, _ := newSerializer(t.conf.SMLProtocol, t.schema)
	return &writer{
		client:     rest.NewClient(t.conf, t.dial),
		serializer: ser,
	}, nil
}

func (t *smlTarget) DBCreator() targets.DBCreator {
	c := common.NewCreator(t.conf, func() (common.Executor, error) {
		return rest.NewExecutor(rest.NewClient(t.conf, t.dial), t.conf.PrintSQL), nil
	})
	return databaseCreator{DBCreator: c, closer: c}
}

// databaseCreator exposes only the database half of a creator.
type databaseCreator struct {
	targets.DBCreator
	closer *common.Creator
}

func (c databaseCreator) Close() error {
	return c.closer.Close()
}

type writer struct {
	client     *common.HTTPClient
	serializer serializer
	buf        bytes.Buffer
}

func (w *writer) Write(ctx context.Context, t targets.TableRef, rows []*data.Row) (targets.WriteResult, error) {
	if len(rows) == 0 {
		return targets.WriteResult{}, nil
	}
	w.buf.Reset()
	if err := w.serializer.serialize(&w.buf, t, rows); err != nil {
		return targets.WriteResult{}, errors.Wrapf(err, "could not encode rows of %s", t.Name)
	}
	status, body, err := w.client.Post(ctx, w.serializer.path(t.Database), w.serializer.contentType(), w.buf.Bytes())
	if err != nil {
		return targets.WriteResult{}, errors.Wrapf(err, "schemaless write of %s failed", t.Name)
	}
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return targets.WriteResult{}, errors.Errorf("schemaless write of %s rejected (status %d): %s", t.Name, status, body)
	}
	return targets.WriteResult{Rows: uint64(len(rows))}, nil
}
