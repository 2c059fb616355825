package internal

// CreatorSBX is the creator tag of the runtime's own record kinds.
const CreatorSBX uint32 = 'S' | 'B'<<8 | 'X'<<16 | ' '<<24

// Record ids of the built-in kinds.
const (
	IDVariable uint16 = 'V' | 'R'<<8
	IDMethod   uint16 = 'M' | 'T'<<8
	IDProperty uint16 = 'P' | 'R'<<8
	IDObject   uint16 = 'O' | 'B'<<8
)

// Factory creates variables for records and objects for classes. Both
// methods return nil for kinds the factory does not know.
type Factory interface {
	// Create returns a new, empty variable for a record of the given id
	// and creator.
	Create(id uint16, creator uint32) Var
	// CreateObject returns a new object of the given class.
	CreateObject(class string) Var
}

// factories are the registered factories, in registration order.
var factories = make([]Factory, 0, 4)

// haveObject becomes true once the first object has been created.
var haveObject = false

// RegisterFactory registers a factory. Factories are consulted in the order
// they are registered, before the built-in one. RegisterFactory should be
// called from within init funcs. Panics if any object has been created.
func RegisterFactory(f Factory) {
	if haveObject {
		panic("sbx/internal: RegisterFactory must be called before any object is created")
	}
	factories = append(factories, f)
}

// Create returns a new variable for a record of the given id and creator, or
// nil if no factory knows the kind.
func Create(id uint16, creator uint32) Var {
	for _, f := range factories {
		if v := f.Create(id, creator); v != nil {
			return v
		}
	}
	return builtin{}.Create(id, creator)
}

// CreateObject returns a new object of the given class. Classes no factory
// knows get a plain Object.
func CreateObject(class string) Var {
	for _, f := range factories {
		if v := f.CreateObject(class); v != nil {
			return v
		}
	}
	return builtin{}.CreateObject(class)
}

// builtin creates the runtime's own kinds.
type builtin struct{}

func (builtin) Create(id uint16, creator uint32) Var {
	if creator != CreatorSBX {
		return nil
	}
	switch id {
	case IDVariable:
		return NewVariable("", Variant)
	case IDMethod:
		return NewMethod("", Variant, false)
	case IDProperty:
		return NewProperty("", Variant)
	case IDObject:
		return NewObject("")
	}
	return nil
}

func (builtin) CreateObject(class string) Var {
	return NewObject(class)
}
