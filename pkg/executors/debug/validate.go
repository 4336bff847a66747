package debug

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// compiledSchema caches a parsed JSON schema alongside the hash of the
// source text it was compiled from, the same hash-gated cache shape the
// shader family uses for compiled programs.
type compiledSchema struct {
	hash   string
	schema *gojsonschema.Schema
}

// validateExecutor checks its "value" input against the JSON schema in
// the "schema" control and emits "valid" plus the individual "errors".
// The compiled schema is cached per nodeId and recompiled only when the
// schema text changes.
type validateExecutor struct {
	schemas *resource.Table[compiledSchema]
}

func newValidateExecutor() *validateExecutor {
	return &validateExecutor{schemas: resource.NewTable[compiledSchema]("debug.validate", nil)}
}

func (e *validateExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	schemaRaw, _ := ectx.Control("schema")
	schemaText := conv.String(schemaRaw)
	if schemaText == "" {
		return types.Outputs{}, nil
	}

	value, ok := ectx.Input("value")
	if !ok {
		return types.Outputs{}, nil
	}

	nodeID := ectx.NodeID()
	sum := sha256.Sum256([]byte(schemaText))
	hash := hex.EncodeToString(sum[:])

	cached, has := e.schemas.Get(nodeID)
	if !has || cached.hash != hash {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaText))
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		cached = compiledSchema{hash: hash, schema: schema}
		e.schemas.Set(nodeID, cached)
	}

	valueBytes, err := json.Marshal(value)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	result, err := cached.schema.Validate(gojsonschema.NewBytesLoader(valueBytes))
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	if result.Valid() {
		return types.Outputs{"valid": true, "value": value}, nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, re.String())
	}
	return types.Outputs{"valid": false, "errors": errs}, nil
}

func (e *validateExecutor) NodeType() types.NodeType  { return "schema-validate" }
func (e *validateExecutor) Validate(types.Node) error { return nil }
