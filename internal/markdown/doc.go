// Package markdown renders post bodies to HTML with the goldmark engine.
// Rendering is isolated here so the index and parser stay byte-oriented;
// nothing in this package mutates post sources.
package markdown
