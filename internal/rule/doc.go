// Package rule matches dark-link indicator keywords against page text.
//
// A rule is literal text, not a pattern: special characters are escaped and
// matching ignores case. A Set is read-only once built and can be shared by
// every worker of a scan.
package rule
