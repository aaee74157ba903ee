// Package shorten creates remainder records when a physical piece of stock
// is cut down.
//
// A shortening never rewrites history: the original record keeps its row and
// merely loses its active flag, while the remainder starts life under a new
// identifier pointing back at its parent. Identifier allocation conflicts are
// retried transparently with a fresh allocation, up to a configured bound.
package shorten
