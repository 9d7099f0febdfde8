package xmlutil

import (
	"encoding/xml"
	"sort"
)

// PrefixMap maps namespace prefixes to namespace URIs
type PrefixMap map[string]string

// ESCL returns the prefix map used for every eSCL document we emit.
func ESCL() PrefixMap { return PrefixMap{PrefixScan: NSScan, PrefixPWG: NSPWG} }

// NewPrefixMap returns a PrefixMap, containing the passed XML attributes
func NewPrefixMap(attrs ...xml.Attr) PrefixMap {
	pmap := PrefixMap{}
	for _, attr := range attrs {
		if attr.Name.Space == "xmlns" {
			pmap[attr.Name.Local] = attr.Value
		}
	}
	return pmap
}

// Attr returns the prefix map contents as a series of xmlns:<prefix>=<nsuri> attributes,
// sorted lexically by prefix.
func (m PrefixMap) Attr() (a []xml.Attr) {
	for k, v := range m {
		a = append(a, xml.Attr{Name: xml.Name{Space: "xmlns", Local: k}, Value: v})
	}
	if len(a) > 0 {
		// sort lexically by prefix
		sort.Slice(a, func(i int, j int) bool { return a[i].Name.Local < a[j].Name.Local })
	}
	return a
}

// OrderedAttr is like Attr, but emits the named prefixes first and in
// the order given. Remaining prefixes follow sorted lexically.
func (m PrefixMap) OrderedAttr(prefixes ...string) (a []xml.Attr) {
	seen := map[string]bool{}
	for _, pfx := range prefixes {
		if v, ok := m[pfx]; ok && !seen[pfx] {
			seen[pfx] = true
			a = append(a, xml.Attr{Name: xml.Name{Space: "xmlns", Local: pfx}, Value: v})
		}
	}
	for _, attr := range m.Attr() {
		if !seen[attr.Name.Local] {
			a = append(a, attr)
		}
	}
	return a
}

// Namespace returns the namespace URI for the given prefix
func (m PrefixMap) Namespace(prefix string) string { return m[prefix] }

// Prefix returns any prefixes found for the namespace URI, sorted lexically.
func (m PrefixMap) Prefix(nsURI string) (pfxes []string) {
	for k, v := range m {
		if nsURI == v {
			pfxes = append(pfxes, k)
		}
	}
	sort.Strings(pfxes)
	return pfxes
}

// Qualify returns n with its namespace replaced by a prefix from m, in
// the form encoding/xml writes verbatim (xml.Name{Local: "pfx:local"}).
// Names in a namespace m doesn't know are returned unchanged.
func (m PrefixMap) Qualify(n xml.Name) xml.Name {
	if n.Space == "" {
		return n
	}
	if pfxes := m.Prefix(n.Space); len(pfxes) > 0 {
		return xml.Name{Local: pfxes[0] + ":" + n.Local}
	}
	return n
}
