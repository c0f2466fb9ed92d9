// Package main provides the entry point for the darklink CLI.
//
// darklink fetches a list of web pages as a desktop and as a mobile
// browser, decodes obfuscated text (URL, HTML entity, hex and base64
// escapes) and reports pages that contain any of a list of keywords.
//
// Usage:
//
//	darklink scan -r rules.txt -u urls.txt
//	darklink scan -r rules.txt https://example.com/
//	darklink history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
