package policy

// match reports whether value matches IAM wildcard pattern, * matches any sequence including separators, ? a single character
func match(pattern, value string) bool {
	p, v := 0, 0
	star, mark := -1, 0
	for v < len(value) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == value[v]):
			p++
			v++
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = v
			p++
		case star != -1:
			p = star + 1
			mark++
			v = mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

// subsumes returns true if pattern grants a strict superset of resource
func subsumes(pattern, resource string) bool {
	if pattern == resource || !match(pattern, resource) {
		return false
	}
	if match(resource, pattern) {
		return pattern < resource
	}
	return true
}
