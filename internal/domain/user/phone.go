package user

import "strings"

// NormalizePhone returns the stored form of a phone number: trimmed, without
// a "whatsapp:" channel prefix and with a leading "+".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(phone), "whatsapp:"))
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}
