package wapi

import "strings"

const personalSuffix = "@c.us"

// FormatPhone turns a bare number into a WhatsApp chat id. Anything that
// already carries a domain part ("...@c.us", "...@g.us") is returned as is.
func FormatPhone(phone string) string {
	if strings.Contains(phone, "@") {
		return phone
	}
	var b strings.Builder
	b.Grow(len(phone) + len(personalSuffix))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	b.WriteString(personalSuffix)
	return b.String()
}

func formatPhones(phones []string) []string {
	out := make([]string, len(phones))
	for i, p := range phones {
		out[i] = FormatPhone(p)
	}
	return out
}
