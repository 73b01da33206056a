// Package gocfb reads Compound File Binary files (MS-CFB, also known as OLE2 structured storage),
// the container behind .msg, .doc, .xls and many other legacy formats.
//
// A compound file is parsed completely from an in-memory buffer by New. The result can be
// navigated through Storage and Stream handles, by path with Reader.Lookup, or as a read-only
// afero.Fs (NewFs) and io/fs.FS (NewGoFS, NewIOFS).
//
// Damaged files are read on a best effort basis: cyclic or dangling sector chains and directory
// links never produce errors, they only shorten the result.
package gocfb

//go:generate go run ./cmd/generate
