// Package journal reads line-delimited JSON journal files: it selects the
// files of a directory by name pattern, streams their lines in order, and
// decodes each line into a models.Event.
package journal
