// Package finder locates components in a hierarchy.
//
// A [Matcher] is a predicate over a component plus a description used in
// failure messages. [Finder] walks a [hierarchy.Hierarchy] on the UI
// goroutine and returns every match in a deterministic order; [Finder.FindOne]
// turns zero or several matches into a [*LookupError] carrying a dump of the
// hierarchy that was searched.
package finder
