package services

import "regexp"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9.-]+`)
	// A digit followed by at least eight more digits, spaces or hyphens.
	// Digits and spaces are Unicode-aware: PDF text often carries NBSPs and
	// non-ASCII digits.
	phoneRe = regexp.MustCompile(`\+?\p{Nd}[\p{Nd}\s\p{Z}-]{8,}`)
	linkRe  = regexp.MustCompile(`https?://[^\s\p{Z}]+`)
)

// Contacts holds the contact fields found in a résumé. Email and Phone keep
// only the first occurrence in the text; Links keeps every match in order
// of appearance and is never nil.
type Contacts struct {
	Email string
	Phone string
	Links []string
}

// ExtractContacts runs all field extractors over text. It never fails: a
// field with no match is left empty.
func ExtractContacts(text string) Contacts {
	email, _ := FirstEmail(text)
	phone, _ := FirstPhone(text)

	return Contacts{
		Email: email,
		Phone: phone,
		Links: ExtractLinks(text),
	}
}

// FirstEmail returns the first email address in text.
func FirstEmail(text string) (string, bool) {
	return firstMatch(emailRe, text)
}

// FirstPhone returns the first phone-number-like run in text, as written.
func FirstPhone(text string) (string, bool) {
	return firstMatch(phoneRe, text)
}

// ExtractLinks returns every http(s) link in text, in order of appearance.
func ExtractLinks(text string) []string {
	links := linkRe.FindAllString(text, -1)
	if links == nil {
		return []string{}
	}
	return links
}

func firstMatch(re *regexp.Regexp, text string) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}
