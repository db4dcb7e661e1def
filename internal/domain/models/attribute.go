package models

// Attribute is a free-form set of fields attached to a struct under a name
// such as "core", "image" or "marketing".
type Attribute map[string]interface{}

// Clone returns a shallow copy.
func (a Attribute) Clone() Attribute {
	out := make(Attribute, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Attributes groups named attributes of a struct.
type Attributes map[string]Attribute

func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Attributes) Get(name string) Attribute {
	return a[name]
}

// Set adds or replaces the attribute under name, allocating the map lazily.
func (a *Attributes) Set(name string, attr Attribute) {
	if *a == nil {
		*a = make(Attributes)
	}
	(*a)[name] = attr
}
