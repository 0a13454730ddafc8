package models

import "github.com/meysamhadeli/i18nav/translation_key"

// FileData holds a scanned source file and the translation keys it uses.
type FileData struct {
	RelativePath string
	Path         string
	Keys         []translation_key.KeyCapture
	Content      []byte
}

type FullContextData struct {
	FileData []FileData
}

// KeyCount returns the number of key usages across all files.
func (d *FullContextData) KeyCount() int {
	count := 0
	for _, file := range d.FileData {
		count += len(file.Keys)
	}
	return count
}

// Finding is a key usage without a translation.
type Finding struct {
	RelativePath string
	Line         int // one-based
	Column       int // one-based, in bytes
	Key          string
	Reason       string
}

type CheckReport struct {
	Files    int
	Keys     int
	Findings []Finding
}

// OK reports whether every key resolved.
func (r *CheckReport) OK() bool {
	return len(r.Findings) == 0
}
