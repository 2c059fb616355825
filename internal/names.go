package internal

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// FoldName returns the case-folded form of an identifier. Two names are the
// same identifier exactly when their folded forms are equal.
func FoldName(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			return cases.Fold().String(name)
		}
	}
	return strings.ToLower(name)
}

// HashName computes the lookup hash of a name. Names that fold to the same
// identifier have the same hash. A zero hash matches any name.
func HashName(name string) uint16 {
	return hashFolded(FoldName(name))
}

// hashFolded hashes the leading ASCII characters of an already folded name.
func hashFolded(folded string) uint16 {
	var h uint16
	n := 0
	for _, c := range folded {
		if n == 6 {
			break
		}
		n++
		if c >= utf8.RuneSelf {
			continue
		}
		switch c {
		case '.', '(', '%', '&', '!', '#', '$', '[', ']', ' ':
			return h
		}
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		h = h<<3 + uint16(c)
	}
	return h
}

// Message keys for the pseudo-property identifiers.
const (
	keyNameProp   = "sbx.property.name"
	keyParentProp = "sbx.property.parent"
)

// nameCatalog holds the localized pseudo-property identifiers.
var nameCatalog = func() catalog.Catalog {
	b := catalog.NewBuilder()
	b.SetString(language.English, keyNameProp, "Name")
	b.SetString(language.English, keyParentProp, "Parent")
	b.SetString(language.German, keyNameProp, "Name")
	b.SetString(language.German, keyParentProp, "Übergeordnet")
	return b
}()

// NameTable is the process-wide table of the identifiers that Objects expose
// as the live "Name" and "Parent" pseudo-properties.
type NameTable struct {
	// Lang is the language the identifiers were resolved for.
	Lang language.Tag
	// Name and Parent are the identifiers as they appear on objects.
	Name, Parent string
	// NameHash and ParentHash are the lookup hashes of the identifiers.
	NameHash, ParentHash uint16

	nameFolded, parentFolded string
}

func newNameTable(tag language.Tag) *NameTable {
	p := message.NewPrinter(tag, message.Catalog(nameCatalog))
	t := NameTable{
		Lang:   tag,
		Name:   p.Sprintf(keyNameProp),
		Parent: p.Sprintf(keyParentProp),
	}
	t.nameFolded = FoldName(t.Name)
	t.parentFolded = FoldName(t.Parent)
	t.NameHash = hashFolded(t.nameFolded)
	t.ParentHash = hashFolded(t.parentFolded)
	return &t
}

// isName reports whether v is named like the Name pseudo-property.
func (t *NameTable) isName(v *Variable) bool {
	return v.hash == t.NameHash && v.folded == t.nameFolded
}

// isParent reports whether v is named like the Parent pseudo-property.
func (t *NameTable) isParent(v *Variable) bool {
	return v.hash == t.ParentHash && v.folded == t.parentFolded
}

var names struct {
	once sync.Once
	mu   sync.Mutex
	lang language.Tag
	tab  *NameTable
}

// InitNames resolves the pseudo-property identifiers for the given language.
// It must be called before the first Object is created; afterward it
// returns an error unless tag matches the table already in use.
func InitNames(tag language.Tag) error {
	names.mu.Lock()
	names.lang = tag
	names.mu.Unlock()
	t := Names()
	if t.Lang != tag {
		return fmt.Errorf("sbx: names already initialized for %v", t.Lang)
	}
	return nil
}

// Names returns the process-wide name table, resolving it on first use.
func Names() *NameTable {
	names.once.Do(func() {
		names.mu.Lock()
		tag := names.lang
		names.mu.Unlock()
		if tag == language.Und {
			tag = language.English
		}
		names.tab = newNameTable(tag)
	})
	return names.tab
}
