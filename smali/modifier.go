package smali

import "strings"

// modifiers collects the keyword flags seen ahead of a declaration's payload.
type modifiers struct {
	access     Access
	isStatic   bool
	isFinal    bool
	isAbstract bool
}

func accessOf(token string) (Access, bool) {
	switch token {
	case "public":
		return AccessPublic, true
	case "private":
		return AccessPrivate, true
	case "protected":
		return AccessProtected, true
	}
	return "", false
}

func isModifier(token string) bool {
	if _, ok := accessOf(token); ok {
		return true
	}
	switch token {
	case "static", "final", "abstract", "synthetic", "constructor", "enum", "varargs",
		"interface", "annotation", "transient", "volatile", "native",
		"synchronized", "declared-synchronized", "bridge", "strictfp":
		return true
	}
	return false
}

// payload walks the whitespace separated tokens of a declaration line,
// skipping the directive and recording modifier keywords, and returns the
// first remaining token. Scanning stops at a '#' comment.
func payload(line, directive string) (modifiers, string, bool) {
	mods := modifiers{access: AccessPackage}
	for _, tok := range strings.Fields(line) {
		if strings.HasPrefix(tok, "#") {
			break
		}
		if tok == directive {
			continue
		}
		if a, ok := accessOf(tok); ok {
			mods.access = a
			continue
		}
		switch tok {
		case "static":
			mods.isStatic = true
		case "final":
			mods.isFinal = true
		case "abstract":
			mods.isAbstract = true
		}
		if isModifier(tok) {
			continue
		}
		if i := strings.IndexByte(tok, '#'); i > 0 {
			tok = tok[:i]
		}
		return mods, tok, true
	}
	return mods, "", false
}
