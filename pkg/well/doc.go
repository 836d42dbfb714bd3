// Package well converts between microplate well labels and zero-based
// grid coordinates.
//
// # Row letters
//
// Rows are named with one or two letters using bijective base-26, the same
// scheme spreadsheets use for columns: "A".."Z" are rows 0..25, "AA" is row
// 26, "AZ" is 51, "BA" is 52 and "ZZ" is the last supported row, 701.
// There is no zero digit, so every row has exactly one name.
//
// # Labels
//
// A label is a row name followed by a one-based column number: "A1",
// "H12", "AF48". Parsing is case-insensitive and ignores zero padding,
// so "a01", "A001" and "A1" all name row 0, column 0. [Format] always
// produces the canonical form (upper case, no padding).
//
//	c, _ := well.Parse("AA12") // Coord{Row: 26, Column: 11}
//	s, _ := well.Format(c)     // "AA12"
//
// All functions are pure and safe for concurrent use. Failures carry
// [errors.ErrCodeInvalidLabelFormat] or [errors.ErrCodeRowIndexOutOfRange].
//
// [errors.ErrCodeInvalidLabelFormat]: github.com/matzehuels/platemap/pkg/errors.ErrCodeInvalidLabelFormat
// [errors.ErrCodeRowIndexOutOfRange]: github.com/matzehuels/platemap/pkg/errors.ErrCodeRowIndexOutOfRange
package well
