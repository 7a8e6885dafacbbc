package pathguard

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestValidate_FileInsideRoot(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(root, "doc.md")
	writeFile(t, abs)

	got, err := Validate("doc.md", root, KindFile)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want, _ := filepath.EvalSymlinks(abs)
	if got.Abs != want {
		t.Errorf("Abs = %q, want %q", got.Abs, want)
	}
}

func TestValidate_AbsolutePathInsideRoot(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(root, "doc.md")
	writeFile(t, abs)

	if _, err := Validate(abs, root, KindFile); err != nil {
		t.Errorf("absolute path under root should validate: %v", err)
	}
}

func TestValidate_TraversalBlocked(t *testing.T) {
	root := t.TempDir()

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
		"docs/../../escape.md",
	}
	for _, p := range cases {
		_, err := Validate(p, root, KindFile)
		if !errors.Is(err, ErrTraversal) {
			t.Errorf("Validate(%q) error = %v, want ErrTraversal", p, err)
		}
	}
}

func TestValidate_SymlinkEscapeBlocked(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	writeFile(t, secret)

	if err := os.Symlink(secret, filepath.Join(root, "inside.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Validate("inside.md", root, KindFile)
	if !errors.Is(err, ErrTraversal) {
		t.Errorf("error = %v, want ErrTraversal", err)
	}
}

func TestValidate_SymlinkInsideRootAllowed(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.md")
	writeFile(t, target)

	if err := os.Symlink(target, filepath.Join(root, "alias.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := Validate("alias.md", root, KindFile)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if got.Abs != want {
		t.Errorf("Abs = %q, want %q", got.Abs, want)
	}
}

func TestValidate_NotFound(t *testing.T) {
	root := t.TempDir()
	_, err := Validate("missing.md", root, KindFile)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestValidate_WrongType(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "doc.md"))

	if _, err := Validate("sub", root, KindFile); !errors.Is(err, ErrWrongType) {
		t.Errorf("directory as KindFile: error = %v, want ErrWrongType", err)
	}
	if _, err := Validate("doc.md", root, KindDir); !errors.Is(err, ErrWrongType) {
		t.Errorf("file as KindDir: error = %v, want ErrWrongType", err)
	}
}

func TestValidateRoot(t *testing.T) {
	root := t.TempDir()
	if _, err := ValidateRoot(root); err != nil {
		t.Errorf("ValidateRoot: %v", err)
	}

	if _, err := ValidateRoot(filepath.Join(root, "nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing root: error = %v, want ErrNotFound", err)
	}

	file := filepath.Join(root, "plain.txt")
	writeFile(t, file)
	if _, err := ValidateRoot(file); !errors.Is(err, ErrWrongType) {
		t.Errorf("file as root: error = %v, want ErrWrongType", err)
	}
}

func TestSafeChild(t *testing.T) {
	root := t.TempDir()

	got, err := SafeChild(root, "img.png")
	if err != nil {
		t.Fatalf("SafeChild: %v", err)
	}
	if got != filepath.Join(root, "img.png") {
		t.Errorf("path = %q", got)
	}

	for _, name := range []string{"", "..", "../x.png", "a/b.png", `..\x.png`} {
		if _, err := SafeChild(root, name); !errors.Is(err, ErrTraversal) {
			t.Errorf("SafeChild(%q) error = %v, want ErrTraversal", name, err)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"../../etc/passwd", "passwd"},
		{`..\..\boot.ini`, "boot.ini"},
		{"dir/sub/name.png", "name.png"},
		{`he<l>lo:"|?*.png`, "hello.png"},
		{"file..png", "filepng"},
		{"....", ""},
		{"a\x00b\x1fc.png", "abc.png"},
		{"", ""},
		{".", ""},
		{"café.png", "café.png"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 300) + ".png"
	got := SanitizeFilename(long)
	if len(got) != 255 {
		t.Errorf("len = %d, want 255", len(got))
	}
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("extension not preserved: %q", got)
	}
}

func TestSanitizeFilename_NeverEmitsReserved(t *testing.T) {
	inputs := []string{
		`<>:"|?*`,
		"../..//..\\..",
		"a<b>c:d.png",
		"nested/../../../etc/passwd",
		strings.Repeat("<danger>", 100) + ".gif",
	}
	for _, in := range inputs {
		got := SanitizeFilename(in)
		if strings.ContainsAny(got, `<>:"|?*`+`/\`) || strings.Contains(got, "..") {
			t.Errorf("SanitizeFilename(%q) = %q, still contains reserved characters", in, got)
		}
	}
}
