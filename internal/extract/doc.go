// Package extract turns page markup into the text that rules are matched
// against.
//
// CombinedText keeps both what a visitor would read and what a browser would
// execute: injected spam is commonly written into the page by a script, so
// script bodies are appended to the visible text instead of being thrown
// away. HiddenLinks reports anchors that the page styles out of view.
package extract
