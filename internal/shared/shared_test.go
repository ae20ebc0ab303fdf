package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFoldSearch(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic folding",
			input: "Science Fiction",
			want:  "science fiction",
		},
		{
			name:  "extra whitespace",
			input: "  Science   Fiction  ",
			want:  "science fiction",
		},
		{
			name:  "mixed case",
			input: "ScIeNcE FiCtIoN",
			want:  "science fiction",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FoldSearch(tt.input)
			if got != tt.want {
				t.Errorf("FoldSearch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Error("expected distinct IDs")
	}
	if !IsUUID(a) {
		t.Errorf("expected a UUID, got %s", a)
	}
}

func TestIsUUID(t *testing.T) {
	if IsUUID("not-a-uuid") {
		t.Error("expected IsUUID to reject a non-UUID string")
	}
	if !IsUUID("7c9e6679-7425-40de-944b-e07fc1f90ae7") {
		t.Error("expected IsUUID to accept a valid UUID")
	}
}

func TestVerifyAndReadFile(t *testing.T) {
	t.Run("regular file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "poster.txt")
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		data, err := VerifyAndReadFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "data" {
			t.Errorf("expected file content 'data', got %s", string(data))
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := VerifyAndReadFile(""); err == nil {
			t.Error("expected error for empty path")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := VerifyAndReadFile(t.TempDir()); err == nil {
			t.Error("expected error for directory path")
		}
	})
}
