// Package scraper reads a saved enrollment-portal page and extracts the text of
// every row in the "My Enrolled Courses" table.
//
// The table is located by its caption, rows are the body rows that carry at
// least one cell, and the interesting cells are addressed by their
// data-metadata-id attribute. Everything handed out of this package is plain
// text in a reconcile.Row; no markup crosses the boundary.
package scraper
