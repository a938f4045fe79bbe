package document

import "testing"

func TestFileType(t *testing.T) {
	cases := map[string]string{
		"report.PDF":       "pdf",
		"notes.md":         "md",
		"archive.tar.docx": "docx",
		"README":           "",
	}
	for in, want := range cases {
		if got := FileType(in); got != want {
			t.Errorf("FileType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAllowed(t *testing.T) {
	allowed := []string{".txt", ".pdf"}
	tests := []struct {
		name string
		want bool
	}{
		{"a.txt", true},
		{"B.PDF", true},
		{"c.exe", false},
		{"noext", false},
		{".pdf.exe", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.name, allowed); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadableSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := ReadableSize(tt.in); got != tt.want {
			t.Errorf("ReadableSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
