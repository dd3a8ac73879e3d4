package jsregex

// Nullability is computed structurally, bottom-up. A node is nullable when it
// can successfully match zero characters. Zero-width constructs (anchors,
// lookaround, \b and \B) consume nothing and are therefore nullable.

// Nullable reports whether the pattern can match the empty string. A parse
// error means the verdict cannot be determined; callers should treat that as
// "do not flag".
func Nullable(source string) (bool, error) {
	p, err := Parse(source)
	if err != nil {
		return false, err
	}
	return p.Nullable(), nil
}

// Nullable reports whether any alternative can match the empty string.
func (p *Pattern) Nullable() bool {
	for _, alt := range p.Alternatives {
		if alt.Nullable() {
			return true
		}
	}
	return len(p.Alternatives) == 0
}

// Nullable reports whether every term in the sequence can match the empty
// string. An empty sequence trivially does.
func (s *Sequence) Nullable() bool {
	for _, t := range s.Terms {
		if !t.Nullable() {
			return false
		}
	}
	return true
}

func (t *Term) Nullable() bool {
	if t.Quant != nil && t.Quant.Min() == 0 {
		return true
	}
	return t.Atom.Nullable()
}

func (a *Atom) Nullable() bool {
	switch {
	case a.Group != nil:
		return a.Group.Nullable()
	case a.Anchor != nil:
		return true
	case a.Escape != nil:
		// \b and \B assert a position without consuming input. Every other
		// escape (\d, \n, \x41, ...) matches exactly one character.
		return *a.Escape == `\b` || *a.Escape == `\B`
	default:
		// A character or character class consumes one character. This holds
		// for the never-matching [] as well: it certainly cannot match "".
		return false
	}
}

func (g *Group) Nullable() bool {
	if g.IsLookaround() {
		return true
	}
	if g.Inner == nil {
		return true
	}
	return g.Inner.Nullable()
}
