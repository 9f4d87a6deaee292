// Package gedcom implements a reader for GEDCOM 5.5 genealogy files.
//
// GEDCOM files are line-oriented: every line carries a level number, an
// optional cross-reference identifier, a tag, and an optional value.
// Consecutive levels form a tree of records. This package parses that
// structure into [Record] trees and provides typed access to date values
// via [ParseDate].
//
// # Usage
//
//	doc, err := gedcom.ParseFile("family.ged")
//	if err != nil {
//	    return err
//	}
//	for _, indi := range doc.RecordsByTag("INDI") {
//	    name := indi.SubValue("NAME")
//	    ...
//	}
package gedcom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrSyntax is returned when a line does not follow the
	// "LEVEL [@XREF@] TAG [value]" structure.
	ErrSyntax = errors.New("malformed GEDCOM line")

	// ErrLevel is returned when a line's level number skips ahead of its
	// parent (e.g. a level-2 line directly below a level-0 line).
	ErrLevel = errors.New("invalid level nesting")
)

// Record is a single GEDCOM record with its nested sub-records.
// Top-level records (level 0) usually carry a cross-reference identifier
// such as "@I1@"; nested records carry tag-specific values.
type Record struct {
	Level   int
	Xref    string // cross-reference id including "@" delimiters, if any
	Tag     string
	Value   string
	Records []*Record // sub-records in source order
}

// Sub returns the first sub-record with the given tag, or nil.
func (r *Record) Sub(tag string) *Record {
	for _, sub := range r.Records {
		if sub.Tag == tag {
			return sub
		}
	}
	return nil
}

// SubAll returns all sub-records with the given tag in source order.
func (r *Record) SubAll(tag string) []*Record {
	var subs []*Record
	for _, sub := range r.Records {
		if sub.Tag == tag {
			subs = append(subs, sub)
		}
	}
	return subs
}

// SubValue returns the value of the first sub-record addressed by a
// slash-separated tag path, e.g. "BIRT/DATE". It returns "" when any
// segment of the path is missing.
func (r *Record) SubValue(path string) string {
	rec := r
	for _, tag := range strings.Split(path, "/") {
		rec = rec.Sub(tag)
		if rec == nil {
			return ""
		}
	}
	return rec.Value
}

// XrefID returns the record's cross-reference identifier with the "@"
// delimiters stripped, e.g. "I1" for "@I1@".
func (r *Record) XrefID() string {
	return strings.Trim(r.Xref, "@")
}

// Document is a parsed GEDCOM file.
type Document struct {
	Records []*Record // level-0 records in source order
}

// RecordsByTag returns all top-level records with the given tag
// (e.g. "INDI", "FAM") in source order.
func (d *Document) RecordsByTag(tag string) []*Record {
	var recs []*Record
	for _, rec := range d.Records {
		if rec.Tag == tag {
			recs = append(recs, rec)
		}
	}
	return recs
}

// ParseFile reads and parses the GEDCOM file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a GEDCOM document from r. CONT and CONC continuation lines
// are folded into their parent record's value, so callers never see them
// as separate records. Parse fails on the first malformed line, reporting
// its line number.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}

	// stack[i] is the most recent record at level i.
	var stack []*Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		// Continuation lines extend the value of the enclosing record.
		if rec.Tag == "CONT" || rec.Tag == "CONC" {
			if rec.Level < 1 || rec.Level > len(stack) {
				return nil, fmt.Errorf("line %d: continuation without parent: %w", lineNo, ErrLevel)
			}
			parent := stack[rec.Level-1]
			if rec.Tag == "CONT" {
				parent.Value += "\n" + rec.Value
			} else {
				parent.Value += rec.Value
			}
			continue
		}

		switch {
		case rec.Level == 0:
			doc.Records = append(doc.Records, rec)
			stack = stack[:0]
			stack = append(stack, rec)
		case rec.Level <= len(stack):
			parent := stack[rec.Level-1]
			parent.Records = append(parent.Records, rec)
			stack = append(stack[:rec.Level], rec)
		default:
			return nil, fmt.Errorf("line %d: level %d below level %d: %w",
				lineNo, rec.Level, len(stack)-1, ErrLevel)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return doc, nil
}

// parseLine splits one "LEVEL [@XREF@] TAG [value]" line into a Record.
func parseLine(line string) (*Record, error) {
	fields := strings.SplitN(strings.TrimLeft(line, " \t"), " ", 3)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, line)
	}

	level, err := strconv.Atoi(fields[0])
	if err != nil || level < 0 {
		return nil, fmt.Errorf("%w: bad level %q", ErrSyntax, fields[0])
	}

	rec := &Record{Level: level}
	rest := fields[1:]

	if strings.HasPrefix(rest[0], "@") && strings.HasSuffix(rest[0], "@") && len(rest[0]) > 2 {
		rec.Xref = rest[0]
		rest = rest[1:]
		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: missing tag after xref", ErrSyntax)
		}
		// Re-split so the tag and value separate correctly.
		parts := strings.SplitN(strings.Join(rest, " "), " ", 2)
		rest = parts
	}

	rec.Tag = rest[0]
	if rec.Tag == "" {
		return nil, fmt.Errorf("%w: empty tag", ErrSyntax)
	}
	if len(rest) > 1 {
		rec.Value = rest[1]
	}
	return rec, nil
}
