// Package config holds darklink's settings and loads its inputs.
//
// Settings come from four layers, each overriding the one before it:
// built-in defaults (NewConfig), the YAML configuration file, DARKLINK_*
// environment variables, and command-line flags the user set explicitly.
// The configuration file also carries per-site cookies and headers.
//
// The rule list and URL list are plain text files with one entry per line.
// URL lists may also be CSV files with a "url" column or NDJSON files.
package config
