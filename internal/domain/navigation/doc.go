// Package navigation tracks which directory a browser session is showing.
//
// The root is always an existing directory or the volumes pseudo-root, and
// the breadcrumb is recomputed from it on every change, so the two never
// disagree. Subscribers registered with OnChange see every root change in
// order.
package navigation
