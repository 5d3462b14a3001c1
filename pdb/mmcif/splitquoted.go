// Splitting a line into fields, where fields can be wrapped in
// single or double quotes. A quote only closes if it is followed
// by whitespace or the end of the line, which is the cif rule and
// lets a field like 'it's here' through.

package mmcif

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

// splitQuoted breaks a line into fields. The quotes themselves
// are stripped. The cif placeholders "." and "?" are kept as they
// are, callers decide what absence means for them.
func splitQuoted(s string) []string {
	var fields []string
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}
		if q := s[i]; q == '\'' || q == '"' {
			j := i + 1
			for j < len(s) {
				if s[j] == q && (j+1 == len(s) || isSpace(s[j+1])) {
					break
				}
				j++
			}
			if j < len(s) { // found the closing quote
				fields = append(fields, s[i+1:j])
				i = j + 1
				continue
			} // unterminated, treat the quote as an ordinary byte
		}
		j := i
		for j < len(s) && !isSpace(s[j]) {
			j++
		}
		fields = append(fields, s[i:j])
		i = j
	}
	return fields
}
