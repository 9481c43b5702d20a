package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "teacher_guide", "teacher_guide"},
		{"spaces", "Intro to AI", "Intro_to_AI"},
		{"path separators", "../etc/passwd", "___etc_passwd"},
		{"punctuation", `Unit 1: "Robots"?`, "Unit_1___Robots__"},
		{"hyphens kept", "unit-one", "unit-one"},
		{"accented letters kept", "Déjà Vu", "Déjà_Vu"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeName(tt.input); got != tt.want {
				t.Errorf("SafeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriterWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	path, err := w.Write("My Lesson", []byte("content"), ".md")
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if want := filepath.Join(dir, "My_Lesson.md"); path != want {
		t.Errorf("Write() path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("written file = %q, want %q", data, "content")
	}
}

func TestWriterNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := New(dir); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat output dir: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("output path %q is not a directory", dir)
	}
}
