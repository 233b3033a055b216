package blocklist

import "sort"

// DomainSet stores unique domains by exact string equality.
type DomainSet struct {
	domains map[string]struct{}
}

// NewDomainSet creates an empty DomainSet.
func NewDomainSet() *DomainSet {
	return &DomainSet{domains: make(map[string]struct{})}
}

// Add adds a domain to the set.
func (s *DomainSet) Add(domain string) {
	if domain == "" {
		return
	}
	s.domains[domain] = struct{}{}
}

// AddAll adds every domain in the slice.
func (s *DomainSet) AddAll(domains []string) {
	for _, domain := range domains {
		s.Add(domain)
	}
}

// Contains reports whether domain is in the set.
func (s *DomainSet) Contains(domain string) bool {
	if s == nil {
		return false
	}
	_, ok := s.domains[domain]
	return ok
}

// Merge merges another DomainSet into this one.
func (s *DomainSet) Merge(other *DomainSet) {
	if other == nil {
		return
	}
	for domain := range other.domains {
		s.domains[domain] = struct{}{}
	}
}

// Len returns the number of domains in the set.
func (s *DomainSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.domains)
}

// Sorted returns the domains in ascending byte order.
func (s *DomainSet) Sorted() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.domains))
	for domain := range s.domains {
		out = append(out, domain)
	}
	sort.Strings(out)
	return out
}

// Merge unions the per-source sets with the local entries and returns the final block list.
// Local entries are taken verbatim.
func Merge(sets []*DomainSet, local []string) []string {
	merged := NewDomainSet()
	for _, set := range sets {
		merged.Merge(set)
	}
	merged.AddAll(local)
	return merged.Sorted()
}
