package discovery

import "strings"

// Unescape decodes DNS-SD presentation escapes: "\DDD" is a decimal byte
// value and "\c" is the literal character c. Malformed escapes are kept as is.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}

		if i+3 < len(s) && isDigit(s[i+1]) && isDigit(s[i+2]) && isDigit(s[i+3]) {
			v := int(s[i+1]-'0')*100 + int(s[i+2]-'0')*10 + int(s[i+3]-'0')
			if v <= 255 {
				sb.WriteByte(byte(v))
				i += 3
				continue
			}
		}

		sb.WriteByte(s[i+1])
		i++
	}

	return sb.String()
}

// Escape is the inverse of Unescape for the characters avahi escapes in labels.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c <= ' ' || c == ';' || c == 127:
			sb.WriteByte('\\')
			sb.WriteByte('0' + c/100)
			sb.WriteByte('0' + c/10%10)
			sb.WriteByte('0' + c%10)
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
