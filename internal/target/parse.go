package target

import (
	"fmt"
	"strings"
)

// Parse converts a canonical target string back into a Target. Accepted
// forms, mirroring Key():
//
//	~Circ
//	~Circ|Mod
//	~Circ|Mod/inst:Of           (instance, possibly below more /a:A steps)
//	~Circ|Mod/a:A>ref.field     (reference, field path optional)
func Parse(s string) (Target, error) {
	if !strings.HasPrefix(s, "~") {
		return nil, fmt.Errorf("target %q: missing leading '~'", s)
	}
	rest := s[1:]

	var refPart string
	if i := strings.IndexByte(rest, '>'); i >= 0 {
		rest, refPart = rest[:i], rest[i+1:]
		if refPart == "" {
			return nil, fmt.Errorf("target %q: empty reference name", s)
		}
	}

	var pathPart string
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest, pathPart = rest[:i], rest[i+1:]
	}

	circuit := rest
	module := ""
	if i := strings.IndexByte(rest, '|'); i >= 0 {
		circuit, module = rest[:i], rest[i+1:]
	}
	if circuit == "" {
		return nil, fmt.Errorf("target %q: empty circuit name", s)
	}

	if module == "" {
		if pathPart != "" || refPart != "" {
			return nil, fmt.Errorf("target %q: instance or reference without a module", s)
		}
		return Circuit{Circuit: circuit}, nil
	}

	var path []InstanceKey
	if pathPart != "" {
		for _, seg := range strings.Split(pathPart, "/") {
			i := strings.IndexByte(seg, ':')
			if i <= 0 || i == len(seg)-1 {
				return nil, fmt.Errorf("target %q: malformed instance segment %q", s, seg)
			}
			path = append(path, InstanceKey{Instance: seg[:i], OfModule: seg[i+1:]})
		}
	}

	if refPart != "" {
		fields := strings.Split(refPart, ".")
		ref := fields[0]
		if ref == "" {
			return nil, fmt.Errorf("target %q: empty reference name", s)
		}
		var fieldPath []string
		for _, f := range fields[1:] {
			if f == "" {
				return nil, fmt.Errorf("target %q: empty field name", s)
			}
			fieldPath = append(fieldPath, f)
		}
		return Reference{Circuit: circuit, Module: module, Path: path, Ref: ref, Field: fieldPath}, nil
	}

	if len(path) > 0 {
		last := path[len(path)-1]
		return Instance{
			Circuit:  circuit,
			Module:   module,
			Path:     path[:len(path)-1],
			Instance: last.Instance,
			OfModule: last.OfModule,
		}, nil
	}

	return Module{Circuit: circuit, Module: module}, nil
}
