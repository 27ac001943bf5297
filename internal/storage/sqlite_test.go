package storage

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/belgraph/internal/reference"
)

func openMemoryDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetOrCreateCitation_Unique(t *testing.T) {
	db := openMemoryDB(t)

	first, err := db.GetOrCreateCitation(reference.DatabasePubMed, "9611787")
	if err != nil {
		t.Fatalf("GetOrCreateCitation() error = %v", err)
	}
	again, err := db.GetOrCreateCitation(reference.DatabasePubMed, " 9611787 ")
	if err != nil {
		t.Fatalf("GetOrCreateCitation() error = %v", err)
	}
	if first != again {
		t.Error("repeated GetOrCreateCitation returned a different pointer")
	}

	count, err := db.CountCitations()
	if err != nil {
		t.Fatalf("CountCitations() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountCitations() = %d, want 1", count)
	}

	if _, err := db.GetOrCreateCitation(reference.DatabasePubMed, "   "); err == nil {
		t.Error("GetOrCreateCitation accepted an empty identifier")
	}
}

func TestGetOrCreateCitation_Concurrent(t *testing.T) {
	db := openMemoryDB(t)

	var wg sync.WaitGroup
	got := make([]*reference.Citation, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := db.GetOrCreateCitation(reference.DatabasePubMed, "10855792")
			if err != nil {
				t.Errorf("GetOrCreateCitation() error = %v", err)
				return
			}
			got[i] = c
		}()
	}
	wg.Wait()

	for _, c := range got[1:] {
		if c != got[0] {
			t.Fatal("concurrent get-or-create produced distinct records")
		}
	}
	if count, _ := db.CountCitations(); count != 1 {
		t.Errorf("CountCitations() = %d, want 1", count)
	}
}

func TestGetCitationByPMID_Missing(t *testing.T) {
	db := openMemoryDB(t)

	c, err := db.GetCitationByPMID("12345")
	if err != nil {
		t.Fatalf("GetCitationByPMID() error = %v", err)
	}
	if c != nil {
		t.Errorf("GetCitationByPMID() = %+v, want nil", c)
	}
}

func TestAuthors_AccentsAreDistinct(t *testing.T) {
	db := openMemoryDB(t)

	plain, err := db.GetOrCreateAuthor("Gomez C")
	if err != nil {
		t.Fatalf("GetOrCreateAuthor() error = %v", err)
	}
	accented, err := db.GetOrCreateAuthor("Gómez C")
	if err != nil {
		t.Fatalf("GetOrCreateAuthor() error = %v", err)
	}
	if plain == accented || plain.ID == accented.ID {
		t.Error("accented and unaccented names were merged")
	}

	again, err := db.GetOrCreateAuthor("Gomez C")
	if err != nil {
		t.Fatalf("GetOrCreateAuthor() error = %v", err)
	}
	if again != plain {
		t.Error("repeated GetOrCreateAuthor returned a different pointer")
	}

	if count, _ := db.CountAuthors(); count != 2 {
		t.Errorf("CountAuthors() = %d, want 2", count)
	}
	if !db.AuthorCached("Gomez C") || !db.AuthorCached("Gómez C") {
		t.Error("created authors missing from the session cache")
	}
	if db.AuthorCached("Gomez c") {
		t.Error("cache lookup is not exact")
	}

	missing, err := db.GetAuthorByName("Nobody X")
	if err != nil {
		t.Fatalf("GetAuthorByName() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetAuthorByName() = %+v, want nil", missing)
	}
}

func TestSaveCitation_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citations.db")

	db, err := OpenDB(path)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}

	c, err := db.GetOrCreateCitation(reference.DatabasePubMed, "9611787")
	if err != nil {
		t.Fatalf("GetOrCreateCitation() error = %v", err)
	}
	c.Name = "Journal of Medicinal Chemistry"
	c.Title = "RECAP"
	c.Volume, c.Issue, c.Pages = "38", "3", "511-22"
	c.Date = "1998-05-01"
	for _, name := range []string{"Lewell XQ", "Judd DB", "Watson SP", "Hann MM"} {
		a, err := db.GetOrCreateAuthor(name)
		if err != nil {
			t.Fatalf("GetOrCreateAuthor() error = %v", err)
		}
		c.AddAuthor(a)
	}
	c.First = c.Authors[0]
	c.Last = c.Authors[len(c.Authors)-1]
	if err := db.SaveCitation(c); err != nil {
		t.Fatalf("SaveCitation() error = %v", err)
	}
	db.Close()

	// A fresh connection has an empty cache and must read everything back.
	db, err = OpenDB(path)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	defer db.Close()

	got, err := db.GetCitationByPMID("9611787")
	if err != nil {
		t.Fatalf("GetCitationByPMID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetCitationByPMID() = nil after save")
	}
	if !got.IsResolved() {
		t.Error("reloaded citation is not resolved")
	}
	if diff := cmp.Diff(NewCitationRecord(c), NewCitationRecord(got)); diff != "" {
		t.Errorf("reloaded citation (-want +got):\n%s", diff)
	}
	if got.First != got.Authors[0] {
		t.Error("first author is not the cached author pointer")
	}
}

func TestSaveCitation_UnstoredAuthor(t *testing.T) {
	db := openMemoryDB(t)

	c, err := db.GetOrCreateCitation(reference.DatabasePubMed, "1")
	if err != nil {
		t.Fatalf("GetOrCreateCitation() error = %v", err)
	}
	c.Name = "Journal"
	c.AddAuthor(&reference.Author{Name: "Loose A"})
	if err := db.SaveCitation(c); err == nil {
		t.Fatal("SaveCitation accepted an author without an ID")
	}

	// The edited record is dropped from the cache and reloaded as stored.
	reloaded, err := db.GetOrCreateCitation(reference.DatabasePubMed, "1")
	if err != nil {
		t.Fatalf("GetOrCreateCitation() error = %v", err)
	}
	if reloaded == c {
		t.Error("failed save left the edited record in the cache")
	}
	if reloaded.Name != "" || len(reloaded.Authors) != 0 {
		t.Errorf("reloaded = %+v, want the empty stored row", reloaded)
	}
}

func TestSaveCitation_FailedSaveKeepsOtherCachedRecord(t *testing.T) {
	db := openMemoryDB(t)

	c, err := db.GetOrCreateCitation(reference.DatabasePubMed, "1")
	if err != nil {
		t.Fatalf("GetOrCreateCitation() error = %v", err)
	}
	edited := *c
	edited.AddAuthor(&reference.Author{Name: "Loose A"})
	if err := db.SaveCitation(&edited); err == nil {
		t.Fatal("SaveCitation accepted an author without an ID")
	}

	again, err := db.GetOrCreateCitation(reference.DatabasePubMed, "1")
	if err != nil {
		t.Fatalf("GetOrCreateCitation() error = %v", err)
	}
	if again != c {
		t.Error("failed save of a copy evicted the cached record")
	}
}

func TestListCitations_Ordered(t *testing.T) {
	db := openMemoryDB(t)

	for _, id := range []string{"3", "1", "2"} {
		if _, err := db.GetOrCreateCitation(reference.DatabasePubMed, id); err != nil {
			t.Fatal(err)
		}
	}

	list, err := db.ListCitations()
	if err != nil {
		t.Fatalf("ListCitations() error = %v", err)
	}
	var ids []string
	for _, c := range list {
		ids = append(ids, c.DBID)
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids); diff != "" {
		t.Errorf("ListCitations() ids (-want +got):\n%s", diff)
	}
}
