package initializers

import (
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/rest"
	"github.com/tdbench/tdbench/pkg/targets/sml"
	"github.com/tdbench/tdbench/pkg/targets/stmt"
	"github.com/tdbench/tdbench/pkg/targets/taosc"
)

// GetTarget resolves protocol to its implementation. It is the only place
// where the protocol selection is inspected; the coordinator only sees the
// returned ImplementedTarget.
func GetTarget(protocol targets.Protocol, conf targets.Config, s *schema.Schema) (targets.ImplementedTarget, error) {
	switch protocol {
	case targets.Native:
		return taosc.NewTarget(conf), nil
	case targets.REST:
		return rest.NewTarget(conf), nil
	case targets.Stmt:
		return stmt.NewTarget(conf), nil
	case targets.Schemaless:
		return sml.NewTarget(conf, s)
	}
	return nil, targets.ErrUnknownProtocol
}
