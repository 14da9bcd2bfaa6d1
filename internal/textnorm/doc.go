// Package textnorm cleans up text scraped from the enrollment portal and
// escapes it for iCalendar TEXT values.
//
// Portal cells are full of non-breaking spaces, stray newlines and runs of
// indentation. Normalize folds all of that into single spaces so the parsers
// downstream can match on a predictable shape.
package textnorm
