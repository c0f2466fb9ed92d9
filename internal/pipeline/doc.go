// Package pipeline checks URLs for dark links.
//
// A Checker fetches one URL once per device profile and runs every page it
// receives through a Pipeline of Steps: deep decoding, text extraction, rule
// matching and hidden-link detection. A BatchProcessor runs the Checker over
// a URL list with bounded concurrency and keeps the results in input order.
//
// Step failures are logged and recorded on the page; they never abort the
// check of the URL or the batch.
package pipeline
