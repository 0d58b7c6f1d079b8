package tools

import "github.com/cloudwego/eino/schema"

// Kind is a tool parameter's declared type.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindMapping
)

// ParamDecl declares one tool parameter. Parameters without a default are
// required.
type ParamDecl struct {
	Name       string
	Desc       string
	Kind       Kind
	Elem       Kind // element kind for KindList
	HasDefault bool
}

// parameterInfos maps declared parameters onto JSON-schema parameter
// descriptions. Typing rules: integers and reals map to their scalar
// types, booleans to boolean, sequences to arrays (non-scalar element
// types fall back to string items), anything else to string.
func parameterInfos(decls []ParamDecl) map[string]*schema.ParameterInfo {
	params := make(map[string]*schema.ParameterInfo, len(decls))
	for _, d := range decls {
		info := &schema.ParameterInfo{
			Desc:     d.Desc,
			Required: !d.HasDefault,
		}
		switch d.Kind {
		case KindInt:
			info.Type = schema.Integer
		case KindFloat:
			info.Type = schema.Number
		case KindBool:
			info.Type = schema.Boolean
		case KindList:
			info.Type = schema.Array
			info.ElemInfo = &schema.ParameterInfo{Type: scalarType(d.Elem)}
		default:
			info.Type = schema.String
		}
		params[d.Name] = info
	}
	return params
}

func scalarType(k Kind) schema.DataType {
	switch k {
	case KindInt:
		return schema.Integer
	case KindFloat:
		return schema.Number
	case KindBool:
		return schema.Boolean
	default:
		return schema.String
	}
}

// Declaration helpers used by the emitter tool files.

func str(name, desc string) ParamDecl {
	return ParamDecl{Name: name, Desc: desc, Kind: KindString}
}

func num(name, desc string) ParamDecl {
	return ParamDecl{Name: name, Desc: desc, Kind: KindFloat}
}

func integer(name, desc string) ParamDecl {
	return ParamDecl{Name: name, Desc: desc, Kind: KindInt}
}

func strList(name, desc string) ParamDecl {
	return ParamDecl{Name: name, Desc: desc, Kind: KindList, Elem: KindString}
}

func mapping(name, desc string) ParamDecl {
	return ParamDecl{Name: name, Desc: desc, Kind: KindMapping}
}

func optional(d ParamDecl) ParamDecl {
	d.HasDefault = true
	return d
}
