// Package models defines the domain types for notepad.
package models

import "fmt"

// UntitledTitle replaces a title that is empty after trimming.
const UntitledTitle = "Untitled Note"

// NewNoteTitlePrefix prefixes the synthesized title of a freshly created note.
const NewNoteTitlePrefix = "New Note - "

// IndexFilename is the name of the metadata index inside the storage root.
const IndexFilename = "meta.json"

// Note is one entry of the metadata index. Content lives in the file at Filepath.
type Note struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}

// ContentFilename returns the content file name for the n-th created note.
func ContentFilename(n int) string {
	return fmt.Sprintf("not_%d.txt", n)
}
