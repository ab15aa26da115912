package clienttype

import "strings"

type Type struct {
	Name string
}

func (t Type) Code() string {
	return t.Name
}

func (t Type) Label() string {
	if len(t.Name) == 0 {
		return ""
	}
	return strings.ToUpper(t.Name[:1]) + t.Name[1:]
}

type Enum struct {
	Private  Type
	Business Type
}

var Types = Enum{
	Private:  Type{Name: "private"},
	Business: Type{Name: "business"},
}

var All = []Type{
	Types.Private,
	Types.Business,
}

// ByName returns the client type for a given name, or nil if not found
func ByName(name string) *Type {
	for _, t := range All {
		if t.Name == name {
			return &t
		}
	}
	return nil
}
