package cache

// matchPattern reports whether key matches a redis glob. '*' and '?' match any
// byte including '/', [...] is a class with '^' negation and ranges, and a
// backslash quotes the next byte. A class left open runs to the end of the
// pattern.
func matchPattern(pattern, key string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 1 && pattern[1] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchPattern(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(key) == 0 {
				return false
			}
			key = key[1:]
		case '[':
			if len(key) == 0 {
				return false
			}
			rest, ok := matchClass(pattern[1:], key[0])
			if !ok {
				return false
			}
			pattern, key = rest, key[1:]
			continue
		case '\\':
			if len(pattern) >= 2 {
				pattern = pattern[1:]
			}
			fallthrough
		default:
			if len(key) == 0 || pattern[0] != key[0] {
				return false
			}
			key = key[1:]
		}
		pattern = pattern[1:]
	}
	return len(key) == 0
}

// matchClass matches c against the class body p and returns the pattern after
// the closing bracket.
func matchClass(p string, c byte) (string, bool) {
	negate := len(p) > 0 && p[0] == '^'
	if negate {
		p = p[1:]
	}

	matched := false
	for len(p) > 0 {
		switch {
		case p[0] == '\\' && len(p) >= 2:
			p = p[1:]
			if p[0] == c {
				matched = true
			}
		case p[0] == ']':
			return p[1:], matched != negate
		case len(p) >= 3 && p[1] == '-':
			start, end := p[0], p[2]
			if start > end {
				start, end = end, start
			}
			if c >= start && c <= end {
				matched = true
			}
			p = p[2:]
		case p[0] == c:
			matched = true
		}
		p = p[1:]
	}
	return p, matched != negate
}
