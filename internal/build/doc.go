// Package build provides the canonical build pipeline for nortreport.
//
// A build is a linear sequence of stages: load the links document, normalize
// entries, write the front page, the dated archive snapshot, the RSS feed and
// the discovery files. All execution paths (the build command, the watcher,
// tests) route through BuildService.
package build
