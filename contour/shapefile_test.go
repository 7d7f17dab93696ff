package contour

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindShapefiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "comarca_PUN_ACO.shp"))
	touch(t, filepath.Join(dir, "comarca_PUN_ACO.dbf"))
	touch(t, filepath.Join(dir, "comarca_LIN_CAR.shp"))
	touch(t, filepath.Join(dir, "notes.txt"))
	if err := os.Mkdir(filepath.Join(dir, "sub.shp"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := FindShapefiles(dir, "_PUN_ACO")
	if err != nil {
		t.Fatalf("FindShapefiles: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "comarca_PUN_ACO.shp" {
		t.Errorf("files = %v, want just the tagged .shp", files)
	}

	all, err := FindShapefiles(dir, "")
	if err != nil {
		t.Fatalf("FindShapefiles: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("empty tag matched %d files, want 2", len(all))
	}
}

func TestFindShapefiles_MissingDir(t *testing.T) {
	if _, err := FindShapefiles(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Error("no error for missing directory")
	}
}

func TestLoadShapefiles_NoMatches(t *testing.T) {
	if _, err := LoadShapefiles(t.TempDir(), "_PUN_ACO"); err == nil {
		t.Error("no error when nothing matches the tag")
	}
}
