// Package executors is the umbrella for every built-in node-type
// family: constant/input, trigger, math/logic, timing, debug,
// visual/shader, 3D, connectivity, CLASP, AI, and subflow. Each
// subpackage owns one family's executors plus whatever per-node state
// table (pkg/resource.Table) the family needs.
//
// A family package exposes a Register(reg *executor.Registry, rm
// *resource.Manager, ...) function that constructs its executors, wires
// their dispose hooks into rm, and registers them on reg. RegisterAll
// assembles the full built-in catalog from those per-family calls.
package executors
