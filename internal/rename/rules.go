package rename

import (
	"strings"

	mapset "github.com/deckarep/golang-set"

	"github.com/tdb-alcorn/firrtl/internal/namespace"
)

// Rule decides the new name for a declared identifier. It is invoked with
// the current name and the namespace of the scope the name lives in, and
// must be deterministic given those inputs. Returning false means no rename
// is needed; a returned name must be collision-free once reserved in the
// scope's namespace.
type Rule func(name string, ns *namespace.Namespace) (string, bool)

// Prefix returns a rule that prepends prefix to every name.
func Prefix(prefix string) Rule {
	return func(name string, _ *namespace.Namespace) (string, bool) {
		return prefix + name, true
	}
}

// Lowercase returns a rule that lowercases names, allocating a suffixed
// variant when the lowercased form is already taken in the scope.
func Lowercase() Rule {
	return caseRule(strings.ToLower)
}

// Uppercase returns a rule that uppercases names, allocating a suffixed
// variant when the uppercased form is already taken in the scope.
func Uppercase() Rule {
	return caseRule(strings.ToUpper)
}

func caseRule(convert func(string) string) Rule {
	return func(name string, ns *namespace.Namespace) (string, bool) {
		converted := convert(name)
		if converted == name {
			return "", false
		}
		if ns.Contains(converted) {
			return ns.Allocate(converted, nil), true
		}
		return converted, true
	}
}

// AvoidKeywords returns a rule that renames identifiers colliding with the
// given reserved-word set, appending a suffix that clears both the scope's
// namespace and the keyword set itself, so a rename cannot land on another
// keyword.
func AvoidKeywords(keywords mapset.Set) Rule {
	return func(name string, ns *namespace.Namespace) (string, bool) {
		if !keywords.Contains(name) {
			return "", false
		}
		return ns.Allocate(name+"_", keywords), true
	}
}
