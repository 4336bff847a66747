// Package types provides shared type definitions for the dataflow runtime.
//
// # Overview
//
// This package contains the core data structures used across the scheduler,
// executor registry, node catalog, resource manager, and connection
// subsystem. It exists to avoid import cycles between those packages while
// giving them a single, consistent vocabulary: DataType tags, port and
// control schemas, node/edge/flow documents, and the execution result
// shape.
//
// # Key Components
//
// DataType: the closed set of value kinds that flow along edges (trigger,
// number, string, boolean, audio, video, texture, data, array, any, and the
// 3D-scene family), plus the compatibility/coercion relation between them.
//
// Port & Control schemas: PortDefinition and ControlDefinition describe the
// static shape of a node type; NodeDefinition ties them together with
// category/platform/icon metadata for the read-only catalog.
//
// Graph documents: Node, Edge, and Flow are the mutable documents the
// scheduler walks every tick. Node.Data holds control values and
// engine-private bookkeeping keys; cached outputs are not part of Node.Data
// because they are transient per-tick state owned by the scheduler.
//
// Execution context: context keys and helpers for propagating frame/tick
// and connection-subsystem correlation ids through context.Context.
//
// # Design Principles
//
//   - Minimal dependencies: this package imports nothing from sibling
//     packages, only the standard library.
//   - Everything the scheduler and executors share about "what a node looks
//     like" lives here; "how a node runs" lives in pkg/executor.
package types
