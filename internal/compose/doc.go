// Package compose turns an original caption track and its translation into
// the output variants (translation, source, bilingual and bilingual reverse)
// and writes them next to each other on disk.
package compose
