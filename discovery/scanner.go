package discovery

import (
	"net"
	"strconv"
	"strings"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceHTTP is the DNS-SD service type of eSCL over HTTP.
	ServiceHTTP = "_uscan._tcp"
	// ServiceHTTPS is the DNS-SD service type of eSCL over HTTPS.
	ServiceHTTPS = "_uscans._tcp"

	// DefaultResourcePath is used when an advertisement has no rs record.
	DefaultResourcePath = "eSCL"
)

// Scanner is one advertised scanner.
type Scanner struct {
	Instance string
	HostName string
	Port     int
	Addrs    []net.IP
	Secure   bool

	// ResourcePath is the rs record, without slashes.
	ResourcePath string
	// UUID can be matched against ScannerCapabilities.UUID.
	UUID         string
	Model        string
	Formats      []string
	ColorSpaces  []string
	InputSources []string
	Duplex       bool
	AdminURL     string
	IconURL      string

	// Text has every TXT record, with keys folded to lower case.
	Text map[string]string
}

// ScannerFromEntry builds a Scanner from a resolved service entry.
func ScannerFromEntry(e *zeroconf.ServiceEntry) Scanner {
	txt := TXTRecords(e.Text)
	s := Scanner{
		Instance:     e.Instance,
		HostName:     e.HostName,
		Port:         e.Port,
		Secure:       strings.HasPrefix(e.Service, ServiceHTTPS),
		ResourcePath: DefaultResourcePath,
		UUID:         strings.TrimPrefix(strings.ToLower(txt["uuid"]), "urn:uuid:"),
		Model:        txt["ty"],
		Formats:      splitList(txt["pdl"]),
		ColorSpaces:  splitList(txt["cs"]),
		InputSources: splitList(txt["is"]),
		Duplex:       parseFlag(txt["duplex"]),
		AdminURL:     txt["adminurl"],
		IconURL:      txt["representation"],
		Text:         txt,
	}
	if rs, ok := txt["rs"]; ok {
		s.ResourcePath = strings.Trim(rs, "/")
	}
	s.Addrs = append(s.Addrs, e.AddrIPv4...)
	s.Addrs = append(s.Addrs, e.AddrIPv6...)
	return s
}

// TXTRecords parses key=value TXT strings. Keys are case-insensitive
// and a key without "=" has an empty value. The first occurrence of a
// key wins.
func TXTRecords(strs []string) map[string]string {
	txt := make(map[string]string, len(strs))
	for _, s := range strs {
		k, v, _ := strings.Cut(s, "=")
		if k == "" {
			continue
		}
		k = strings.ToLower(k)
		if _, ok := txt[k]; !ok {
			txt[k] = v
		}
	}
	return txt
}

// Host returns the address to connect to: the first IPv4 address, then
// the first IPv6 address, then the host name.
func (s Scanner) Host() string {
	for _, ip := range s.Addrs {
		if ip.To4() != nil {
			return ip.String()
		}
	}
	if len(s.Addrs) > 0 {
		return s.Addrs[0].String()
	}
	return strings.TrimSuffix(s.HostName, ".")
}

// BaseURL returns scheme://host:port/<rs>/.
func (s Scanner) BaseURL() string {
	scheme := "http"
	if s.Secure {
		scheme = "https"
	}
	u := scheme + "://" + net.JoinHostPort(s.Host(), strconv.Itoa(s.Port)) + "/"
	if s.ResourcePath != "" {
		u += s.ResourcePath + "/"
	}
	return u
}

func splitList(s string) (out []string) {
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "yes":
		return true
	}
	return false
}
