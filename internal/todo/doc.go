// Package todo loads, mutates, and saves the weekly task checklist.
//
// The task file (tasks.json) maps every weekday to an ordered list of records:
//
//	{
//	  "Mon": [
//	    {
//	      "Description": "Buy milk",
//	      "Done": false
//	    }
//	  ],
//	  "Tue": [],
//	  ...
//	  "Sun": []
//	}
//
// A record's identity on disk is its position within the day. In memory each
// record also carries an ID that is assigned on load and never written, so
// callers can refer to a record without holding its index.
//
// # Loading
//
//   - A missing file loads as a week of empty days.
//   - Days absent from the file are filled in; unknown keys are rejected.
//   - The file is validated against an embedded JSON Schema before decoding;
//     violations are reported as persist.ErrCorrupt.
//
// # Legacy migration
//
// Early releases pickled the same mapping to data.pkl. When that file is
// present, Load decodes it, writes tasks.json (replacing any existing copy),
// and deletes data.pkl. Subsequent loads read tasks.json only.
//
// # File Format
//
// When writing task files, the package uses:
//   - Weekday key order (Mon..Sun)
//   - 2-space indentation
//   - Trailing newline
package todo
