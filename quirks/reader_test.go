package quirks

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/escl/xmlutil"
)

func startNames(t *testing.T, doc string) (names []xml.Name) {
	t.Helper()
	r := NewReader(xml.NewDecoder(strings.NewReader(doc)))
	for {
		tok, err := r.Token()
		if err == io.EOF {
			return names
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok {
			names = append(names, se.Name)
		}
	}
}

func TestElement(t *testing.T) {
	for _, tc := range []struct {
		in   xml.Name
		want xml.Name
	}{
		{in: xmlutil.Scan("Intent"), want: xmlutil.Scan("Intent")},
		{in: xmlutil.PWG("Version"), want: xmlutil.PWG("Version")},
		{in: xmlutil.XMLName("Version", "pwg"), want: xmlutil.PWG("Version")},
		{in: xmlutil.XMLName("Intent", "scan"), want: xmlutil.Scan("Intent")},
		{in: xmlutil.XMLName("Intent"), want: xmlutil.Scan("Intent")},
		{in: xmlutil.XMLName("Vendor", "urn:vendor"), want: xmlutil.Scan("Vendor")},
		{in: xmlutil.Scan("ContentType"), want: xmlutil.PWG("ContentType")},
		{in: xmlutil.Scan("SupportedIntent"), want: xmlutil.Scan("Intent")},
		{in: xmlutil.PWG("SupportedIntent"), want: xmlutil.PWG("Intent")},
	} {
		t.Run(xmlutil.String(tc.in), func(t *testing.T) { assert.New(t).Equal(tc.want, Element(tc.in)) })
	}
}

func TestAttribute(t *testing.T) {
	a := assert.New(t)
	a.Equal(xmlutil.PWG("MustHonor"), Attribute(xmlutil.XMLName("MustHonor", "pwg")))
	a.Equal(xmlutil.PWG("MustHonor"), Attribute(xmlutil.PWG("MustHonor")))
	a.Equal(xmlutil.Scan("x"), Attribute(xmlutil.XMLName("x", "scan")))
	a.Equal(xmlutil.XMLName("MustHonor"), Attribute(xmlutil.XMLName("MustHonor")))
	a.Equal(xmlutil.XMLName("pwg", "xmlns"), Attribute(xmlutil.XMLName("pwg", "xmlns")))
}

func TestReaderRewritesStartAndEnd(t *testing.T) {
	const doc = `<scan:SupportedIntents xmlns:scan="http://schemas.hp.com/imaging/escl/2011/05/03">` +
		`<scan:SupportedIntent>Document</scan:SupportedIntent>` +
		`<scan:ContentType>Text</scan:ContentType>` +
		`</scan:SupportedIntents>`
	a := assert.New(t)
	r := NewReader(xml.NewDecoder(strings.NewReader(doc)))
	var toks []xml.Token
	for {
		tok, err := r.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		toks = append(toks, xml.CopyToken(tok))
	}
	if a.Len(toks, 8) {
		a.Equal(xmlutil.Scan("Intent"), toks[1].(xml.StartElement).Name)
		a.Equal(xmlutil.Scan("Intent"), toks[3].(xml.EndElement).Name)
		a.Equal(xmlutil.PWG("ContentType"), toks[4].(xml.StartElement).Name)
		a.Equal(xmlutil.PWG("ContentType"), toks[6].(xml.EndElement).Name)
	}
}

func TestReaderUndeclaredPrefixes(t *testing.T) {
	// Go's decoder leaves undeclared prefixes in Name.Space
	names := startNames(t, `<scan:ScannerStatus><pwg:Version>2.6</pwg:Version><pwg:State>Idle</pwg:State></scan:ScannerStatus>`)
	assert.Equal(t, []xml.Name{xmlutil.Scan("ScannerStatus"), xmlutil.PWG("Version"), xmlutil.PWG("State")}, names)
}

func TestReaderRestartable(t *testing.T) {
	const doc = `<a xmlns="urn:other"><SupportedIntent>Photo</SupportedIntent></a>`
	first := startNames(t, doc)
	second := startNames(t, doc)
	assert.Equal(t, first, second)
	assert.Equal(t, []xml.Name{xmlutil.Scan("a"), xmlutil.Scan("Intent")}, first)
}
