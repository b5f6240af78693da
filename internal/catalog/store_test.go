package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/codefix-arena/backend/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sdb, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = sdb.Close() })
	return NewStore(sdb)
}

func seedHierarchy(t *testing.T, store *Store) (Subject, Unit, Subtopic) {
	t.Helper()
	ctx := context.Background()

	subj, err := store.CreateSubject(ctx, Subject{Name: "Programación", Description: "Fundamentos"})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	unit, err := store.CreateUnit(ctx, Unit{SubjectID: subj.ID, Name: "Estructuras de control", Order: 1})
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	st, err := store.CreateSubtopic(ctx, Subtopic{UnitID: unit.ID, Name: "Bucles for", Content: "Un bucle repite...", Order: 1})
	if err != nil {
		t.Fatalf("CreateSubtopic: %v", err)
	}
	return subj, unit, st
}

func TestListSubjectsNested(t *testing.T) {
	store := newTestStore(t)
	subj, unit, st := seedHierarchy(t, store)

	// Second subtopic with a lower order sorts first.
	first, err := store.CreateSubtopic(context.Background(), Subtopic{UnitID: unit.ID, Name: "Condicionales", Order: 0})
	if err != nil {
		t.Fatalf("CreateSubtopic: %v", err)
	}

	subjects, err := store.ListSubjects(context.Background())
	if err != nil {
		t.Fatalf("ListSubjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0].ID != subj.ID {
		t.Fatalf("subjects = %+v", subjects)
	}
	units := subjects[0].Units
	if len(units) != 1 || len(units[0].Subtopics) != 2 {
		t.Fatalf("nested tree = %+v", units)
	}
	if units[0].Subtopics[0].ID != first.ID || units[0].Subtopics[1].ID != st.ID {
		t.Fatal("subtopics not ordered by ord")
	}
}

func TestCreateUnitUnknownSubject(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateUnit(context.Background(), Unit{SubjectID: "missing", Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateSubtopicUnknownUnit(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateSubtopic(context.Background(), Subtopic{UnitID: "missing", Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetPath(t *testing.T) {
	store := newTestStore(t)
	subj, unit, st := seedHierarchy(t, store)

	path, err := store.GetPath(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if path.Subject.ID != subj.ID || path.Unit.ID != unit.ID || path.Subtopic.ID != st.ID {
		t.Fatalf("path = %+v", path)
	}
	if path.Subtopic.Content != "Un bucle repite..." {
		t.Fatalf("study text = %q", path.Subtopic.Content)
	}

	if _, err := store.GetPath(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing path err = %v", err)
	}
}

func TestUpdateAndDeleteSubject(t *testing.T) {
	store := newTestStore(t)
	subj, _, _ := seedHierarchy(t, store)

	updated, err := store.UpdateSubject(context.Background(), Subject{ID: subj.ID, Name: "Programación I", Description: "v2"})
	if err != nil {
		t.Fatalf("UpdateSubject: %v", err)
	}
	if updated.Name != "Programación I" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := store.DeleteSubject(context.Background(), subj.ID); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}
	if _, err := store.GetSubject(context.Background(), subj.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete err = %v", err)
	}
	if err := store.DeleteSubject(context.Background(), subj.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete err = %v", err)
	}
}
