// Package hierarchy exposes the traversable tree of windows and components
// used for lookup.
//
// Parent and child relationships are read live from the toolkit on every
// call; the only state kept here is which windows are roots (supplied by a
// [RootSource], normally the lifecycle monitor's context) and the explicit
// filter overlay that hides components, with their whole subtree, from
// traversal without destroying them.
package hierarchy
