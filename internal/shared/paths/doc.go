// Package paths provides the engine's canonical path value.
//
// A Path is an absolute location normalized to "/" separators with no
// trailing separator (a volume root such as "/" or "C:/" keeps its slash).
// The zero value, Volumes, is the drives/volumes pseudo-root that sits above
// every volume root.
//
// # Breadcrumbs
//
// Segments splits a path for breadcrumb display with the volume root first:
//
//	/home/ada/docs  ->  ["/", "home", "ada", "docs"]
//	C:/Users/ada    ->  ["C:/", "Users", "ada"]
//	Volumes         ->  []
//
// JoinSegments is the exact inverse, which is what lets navigation derive
// root and breadcrumb from each other instead of editing them separately.
//
// # Comparison
//
// Paths are case-preserving. Whether "A" and "a" name the same entry is a
// policy (CaseSensitive or CaseInsensitive) chosen by configuration and
// passed to Equal and Contains.
package paths
