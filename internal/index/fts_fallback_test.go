//go:build !sqlite_fts5

package index

import "testing"

func TestLikeSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertNote(NoteRow{Filename: "not_0.txt", Title: "A", Checksum: "1"}, "100% done"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertNote(NoteRow{Filename: "not_1.txt", Title: "B", Checksum: "2"}, "1000 done"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertNote(NoteRow{Filename: "not_2.txt", Title: "C", Checksum: "3"}, "snake_case"); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("0%", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Filename != "not_0.txt" {
		t.Errorf("search 0%% = %+v", results)
	}

	results, err = db.Search("e_c", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Filename != "not_2.txt" {
		t.Errorf("search e_c = %+v", results)
	}

	results, err = db.Search("  ", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("blank search = %+v", results)
	}
}
