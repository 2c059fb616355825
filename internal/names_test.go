package internal_test

import (
	"testing"

	"github.com/zephyrtronium/sbx"
	"golang.org/x/text/language"
)

// TestHashName tests that lookup hashes ignore case and stop at type and
// qualification characters.
func TestHashName(t *testing.T) {
	cases := map[string]struct {
		a, b string
		same bool
	}{
		"Case":      {"Name", "NAME", true},
		"Suffix":    {"Count", "Count%", true},
		"Dot":       {"Sub", "Sub.Item", true},
		"Long":      {"Parent", "ParentObject", true},
		"Different": {"Name", "Nome", false},
		"Unicode":   {"Übergeordnet", "übergeordnet", true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			ha, hb := sbx.HashName(c.a), sbx.HashName(c.b)
			if (ha == hb) != c.same {
				t.Errorf("hashes %#x and %#x; wanted same %t", ha, hb, c.same)
			}
		})
	}
	if sbx.HashName("") != 0 {
		t.Errorf("empty name hashes to %#x", sbx.HashName(""))
	}
}

// TestNames tests the process-wide name table.
func TestNames(t *testing.T) {
	n := sbx.Names()
	if n.Lang != language.English {
		t.Skipf("name table initialized for %v", n.Lang)
	}
	if n.Name != "Name" || n.Parent != "Parent" {
		t.Errorf("wrong identifiers %q and %q", n.Name, n.Parent)
	}
	if n.NameHash != sbx.HashName("name") {
		t.Errorf("wrong Name hash %#x", n.NameHash)
	}
	if err := sbx.InitNames(language.English); err != nil {
		t.Errorf("reinitializing with the same language: %v", err)
	}
	if err := sbx.InitNames(language.German); err == nil {
		t.Error("reinitializing with another language succeeded")
	}
	if sbx.Names() != n {
		t.Error("name table replaced")
	}
}
