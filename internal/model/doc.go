// Package model defines the data structures shared across darklink.
//
// This package contains the following main types:
//   - DeviceProfile and Coverage: which simulated clients reached a URL
//   - Page: one successful response moving through the analysis pipeline
//   - Attempt and URLResult: the merged outcome of checking one URL
//   - RunSummary: the ordered results and counts of one batch run
//
// Models live in their own package so that the pipeline, report, and
// database packages can share them without import cycles.
package model
