// Package exam provides the final-exam record types and the pure
// transformations the scraper applies to them.
//
// A scrape moves each upstream table row through three typed stages:
// RawRow (fields as extracted from HTML), ExamRecord (normalized with ISO and
// 12-hour schedule fields) and finally the deduplicated snapshot list. None of
// the functions here perform I/O and none of them fail: labels that cannot be
// understood leave the derived fields empty.
package exam
