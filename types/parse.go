package types

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/cottand/ocl/internal/log"
)

var logger = log.DefaultLogger.With("section", "types")

// Parse reads a type name such as `Integer`, `Bag(Real)` or `Set(Bag(Person))`,
// resolving class names against h
func (h *Hierarchy) Parse(name string) (Type, error) {
	r := &typeReader{src: name, h: h}
	t, err := r.readType()
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", name, err)
	}
	r.skipSpace()
	if r.pos != len(r.src) {
		return nil, fmt.Errorf("invalid type %q: unexpected %q at offset %d", name, r.src[r.pos:], r.pos)
	}
	return t, nil
}

type typeReader struct {
	src string
	pos int
	h   *Hierarchy
}

func (r *typeReader) skipSpace() {
	for r.pos < len(r.src) && unicode.IsSpace(rune(r.src[r.pos])) {
		r.pos++
	}
}

func (r *typeReader) readIdent() string {
	r.skipSpace()
	start := r.pos
	for r.pos < len(r.src) {
		c := rune(r.src[r.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		r.pos++
	}
	return r.src[start:r.pos]
}

func (r *typeReader) expect(c byte) error {
	r.skipSpace()
	if r.pos >= len(r.src) || r.src[r.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, r.pos)
	}
	r.pos++
	return nil
}

func (r *typeReader) readType() (Type, error) {
	ident := r.readIdent()
	if ident == "" {
		return nil, fmt.Errorf("expected a type name at offset %d", r.pos)
	}
	switch ident {
	case "Bag", "Set":
		if err := r.expect('('); err != nil {
			return nil, err
		}
		elem, err := r.readType()
		if err != nil {
			return nil, err
		}
		if err := r.expect(')'); err != nil {
			return nil, err
		}
		if ident == "Bag" {
			return MkBag(elem), nil
		}
		return MkSet(elem), nil
	case VoidTypeName:
		return Void, nil
	}
	class, ok := r.h.Class(ident)
	if !ok {
		known := slices.Sorted(maps.Keys(r.h.classes))
		return nil, fmt.Errorf("unknown type %s (known: %s)", ident, strings.Join(known, ", "))
	}
	return class, nil
}
