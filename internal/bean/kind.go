package bean

import (
	"strings"

	"github.com/beanwright/jbgen/internal/model"
)

// objectMethods are the java.lang.Object overrides that are neither
// accessors nor business logic.
var objectMethods = map[string]bool{
	"toString": true,
	"equals":   true,
	"hashCode": true,
}

// IsObjectMethod reports whether name is toString, equals or hashCode.
func IsObjectMethod(name string) bool {
	return objectMethods[name]
}

// IsToString reports whether m is a no-arg toString.
func IsToString(m model.Method) bool {
	return !m.Constructor && m.Name == "toString" && m.Arity() == 0
}

// Kind tags a method against the fields of its class. The returned field
// name is set for getters and setters.
func Kind(m model.Method, fields []model.Field) (model.MethodKind, string) {
	if m.Constructor {
		return model.KindConstructor, ""
	}
	if IsToString(m) {
		return model.KindToString, ""
	}
	if IsObjectMethod(m.Name) {
		return model.KindUnknown, ""
	}
	if f, ok := matchGetter(m, fields); ok {
		return model.KindGetter, f
	}
	if f, ok := matchSetter(m, fields); ok {
		return model.KindSetter, f
	}
	return model.KindBusiness, ""
}

// IsAccessor reports whether m is a getter or setter of one of fields.
func IsAccessor(m model.Method, fields []model.Field) bool {
	k, _ := Kind(m, fields)
	return k == model.KindGetter || k == model.KindSetter
}

// IsBusiness reports whether m is a business method: not a constructor,
// not a matched accessor and not an Object override.
func IsBusiness(m model.Method, fields []model.Field) bool {
	k, _ := Kind(m, fields)
	return k == model.KindBusiness
}

func matchGetter(m model.Method, fields []model.Field) (string, bool) {
	if m.Arity() != 0 {
		return "", false
	}
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		if m.Name == AccessorName(f) {
			return f.Name, true
		}
		if suffix, ok := cutPrefix(m.Name, "get"); ok && Decapitalize(suffix) == f.Name {
			return f.Name, true
		}
		isBool := f.IsPrimitiveBoolean() || f.IsBoxedBoolean()
		if suffix, ok := cutPrefix(m.Name, "is"); ok && isBool && Decapitalize(suffix) == f.Name {
			return f.Name, true
		}
	}
	return "", false
}

func matchSetter(m model.Method, fields []model.Field) (string, bool) {
	if m.Arity() != 1 {
		return "", false
	}
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		if m.Name == MutatorName(f) {
			return f.Name, true
		}
		if suffix, ok := cutPrefix(m.Name, "set"); ok && Decapitalize(suffix) == f.Name {
			return f.Name, true
		}
	}
	return "", false
}

// cutPrefix is strings.CutPrefix that also requires a non-empty remainder.
func cutPrefix(s, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
