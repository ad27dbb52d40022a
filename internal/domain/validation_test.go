package domain

import "testing"

func TestValidLogin(t *testing.T) {
	cases := []struct {
		login string
		want  bool
	}{
		{"johnsmith", true},
		{"JohnSmith42", true},
		{"short", false},
		{"has space8", false},
		{"with-dash8", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidLogin(c.login); got != c.want {
			t.Errorf("ValidLogin(%q) = %v, want %v", c.login, got, c.want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		pswd string
		want bool
	}{
		{"Abcdef1!", true},
		{"abcdef1!", false}, // no upper
		{"ABCDEF1!", false}, // no lower
		{"Abcdefg!", false}, // no digit
		{"Abcdefg1", false}, // no symbol
		{"Ab1!", false},     // too short
	}
	for _, c := range cases {
		if got := ValidPassword(c.pswd); got != c.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", c.pswd, got, c.want)
		}
	}
}

func TestValidFileName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"notes.md", true},
		{"my-notes_v2.markdown", true},
		{"My Notes v2.md", false}, // no spaces
		{"readme.MD", false},      // extension is case-sensitive
		{"notes.txt", false},
		{"../escape.md", false},
		{"dir/notes.md", false},
		{".md", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidFileName(c.name); got != c.want {
			t.Errorf("ValidFileName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
