package eventtype

import "strings"

// Type distinguishes one-off catering jobs from multi-day or multi-venue ones.
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
	Single  Type
	Complex Type
}

var Types = Enum{
	Single:  Type{Name: "single"},
	Complex: Type{Name: "complex"},
}

var All = []Type{
	Types.Single,
	Types.Complex,
}

func ByName(name string) *Type {
	for _, t := range All {
		if t.Name == name {
			return &t
		}
	}
	return nil
}
