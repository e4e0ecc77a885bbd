// Package columnar stores parsed CSV data as parallel columns instead of one
// object per row.
//
// # Overview
//
// A Collection holds one typed Column per field. Appending a record appends
// exactly one value to every column, so all columns always have the same
// length and the logical record at index i is the tuple of the values at i.
//
// Column types are fixed by the first appended record (or up front with
// NewWithSchema):
//
//   - StringColumn: switches to dictionary encoding when values repeat
//   - IntColumn, FloatColumn: flat numeric slices
//   - BoolColumn: bit-packed, 64 values per word
//   - AnyColumn: one interface slot per value (decimals, mixed data)
//
// # Usage Example
//
//	rides := columnar.New("route", "date", "daytype", "rides")
//	_ = rides.Append(schema.Record{"route": "3", "date": "01/01/2001", "daytype": "U", "rides": 7354})
//
//	first, _ := rides.Get(0)
//	everyOther, _ := rides.Slice(0, rides.Len(), 2)
//
// # Memory
//
// MemoryUsage reports an estimate of the bytes held by the columns, which the
// memprofile package compares against row-oriented representations.
//
// # Export
//
// ToArrow and WriteArrow export the data as an Arrow record batch. WriteAvro
// writes an Avro object container file that ReadAvro loads back.
//
// # Thread Safety
//
// A Collection is not safe for concurrent mutation.
package columnar
