// Package textutil provides the small, independent text transformations the
// document parser chains together: markdown cleanup, sentence and quote
// splitting, uppercase detection and title casing, and memorization hints.
//
// Each transformation is a pure function over strings so its contract can be
// tested in isolation.
package textutil
