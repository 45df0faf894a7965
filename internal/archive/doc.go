// Package archive builds zip containers by streaming sources through a
// fixed-size transfer buffer, so memory use stays bounded by the chunk size
// regardless of source size.
//
// Entries are compressed with deflate by default (klauspost/compress/flate),
// or with zstd (zip method 93) or stored uncompressed when configured. Entry
// names carry no directory structure; callers pass base names, see EntryName.
package archive
