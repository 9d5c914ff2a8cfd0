package identity

import "strings"

// Emails implements EmailSet with a map keyed by the lower-cased email.
type Emails struct {
	emails map[string]struct{}
}

// NewEmailSet creates a set holding emails.
func NewEmailSet(emails ...string) *Emails {
	s := &Emails{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		s.Add(e)
	}
	return s
}

// ParseEmailList splits a comma-separated list into a set.
func ParseEmailList(list string) *Emails {
	return NewEmailSet(strings.Split(list, ",")...)
}

func (s *Emails) Contains(email string) bool {
	_, ok := s.emails[normalise(email)]
	return ok
}

func (s *Emails) Size() int {
	return len(s.emails)
}

// Add inserts email. Blank entries and comment lines are ignored.
func (s *Emails) Add(email string) {
	email = normalise(email)
	if email == "" || strings.HasPrefix(email, "#") {
		return
	}
	s.emails[email] = struct{}{}
}

// Merge adds every email of other.
func (s *Emails) Merge(other *Emails) {
	if other == nil {
		return
	}
	for e := range other.emails {
		s.emails[e] = struct{}{}
	}
}

func normalise(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
