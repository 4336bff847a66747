// Package graph provides graph algorithms for the per-frame scheduler.
//
// # Overview
//
// The graph package holds one flow's nodes and edges, plus any subflow
// Flow definitions it references, and implements the ordering and lookup
// operations the scheduler needs each tick: topological sort, cycle
// detection, and edge lookups by node id.
//
// # Key Algorithms
//
// Topological Sort:
//   - Implements Kahn's algorithm for topological ordering
//   - Ensures nodes execute in dependency order
//   - Detects cycles in the flow graph
//   - Provides stable, deterministic ordering via insertion-order tie-break
//
// # Graph Representation
//
// A flow is a directed graph where:
//
//   - Nodes represent dataflow operations
//   - Edges represent typed value dependencies
//   - Direction indicates data flow (source -> target)
//   - A port declared multiple: true may have several incoming edges,
//     gathered in edge-insertion order
//
// # Usage
//
//	import "github.com/nodeforge/dataflow/pkg/graph"
//
//	g := graph.New(nodes, edges)
//	order, err := g.TopologicalSort()
//	if err != nil {
//	    var verr *graph.GraphValidationError
//	    // skip the tick; verr.Reason == "cycle"
//	}
//	for _, nodeID := range order {
//	    tick(g.GetNode(nodeID))
//	}
//
// # Performance Characteristics
//
//   - Topological sort: O(V + E) where V=nodes, E=edges
//   - Memory efficient: sparse adjacency representation, ring-buffer queue
//
// # Thread Safety
//
// The scheduler builds one Graph when an Engine is created and edits it in
// place through AddNode, AddEdge and RemoveNode; it is not safe for
// concurrent mutation, matching the single-threaded scheduler that owns it.
package graph
