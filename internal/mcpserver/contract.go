package mcpserver

// StorageLayout describes how notes are kept on disk, for LLM consumers that
// want to reason about the store.
const StorageLayout = `# Notepad Storage Layout

Notes live in one storage directory (default ` + "`Notes/`" + `).

- ` + "`meta.json`" + ` is a JSON array. Each element is
  ` + "`{\"title\": string, \"filename\": string, \"filepath\": string}`" + `.
  Array order is creation order and list order. The file is rewritten whole on
  every create and rename.
- ` + "`not_<N>.txt`" + ` holds the raw UTF-8 text of one note. N is the number of
  notes that existed when it was created. There is no header or framing.

## Working with notes through the tools

1. ` + "`list_notes`" + ` returns positions and titles. Filtering is a case-insensitive
   substring match on the title.
2. ` + "`open_note`" + ` selects a note by position and returns its text.
3. ` + "`rename_note`" + ` and ` + "`write_note`" + ` act on the open note only.
4. ` + "`create_note`" + ` appends an empty note titled "New Note - <timestamp>" and opens it.
5. A blank title becomes "Untitled Note". Trailing whitespace is trimmed on save.
6. Notes cannot be deleted.
`
