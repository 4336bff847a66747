// Package catalog provides the read-only node definition catalog.
//
// # Overview
//
// A Catalog is a startup-populated registry mapping a node type to its
// static schema: input/output ports, controls, supported platforms,
// category, icon, and any connection requirements. It answers "what does
// this node type look like" — the executor registry (pkg/executor)
// answers "how does it run".
//
// # Usage
//
//	cat := catalog.New()
//	cat.MustRegister(types.NodeDefinition{
//	    NodeType: "constant",
//	    Category: "input",
//	    Outputs: []types.PortDefinition{{ID: "value", Type: types.DataTypeNumber}},
//	})
//	def, ok := cat.Get("constant")
//
// # Search
//
// FilteredBy performs a fuzzy substring match over label and node type; it
// exists for editor-side search UIs. The scheduler only ever calls Get.
package catalog
