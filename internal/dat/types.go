// Package dat converts per-title JSON descriptors into a DAT XML catalog.
package dat

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// Config holds the resolved settings for building a single catalog.
type Config struct {
	Author      string
	URL         string
	OutFile     string
	Sources     string // glob pattern matching descriptor files
	Name        string
	Description string
}

// Datafile is the catalog document: one header followed by games in
// the order their descriptors were processed.
type Datafile struct {
	XMLName xml.Name `xml:"datafile"`
	Header  *Header  `xml:"header"`
	Games   []*Title `xml:"game"`
}

// Header carries the catalog provenance.
type Header struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Version     string `xml:"version"`
	Author      string `xml:"author"`
	URL         string `xml:"url"`
	Date        string `xml:"date"`
}

// Title is one validated descriptor, rendered as a game element.
type Title struct {
	UID         string  `xml:"name,attr"`
	Description *string `xml:"description"`
	Roms        []Rom   `xml:"rom"`
}

// Rom is a single expected file of a title.
type Rom struct {
	Name string  `xml:"name,attr"`
	Date *string `xml:"date,attr"`
	Size int64   `xml:"size,attr"`
	CRC  CRC     `xml:"crc,attr"`
	SHA1 string  `xml:"sha1,attr"`
	MD5  string  `xml:"md5,attr"`
}

// CRC is a CRC-32 checksum. It always renders as 8 lowercase hex digits.
type CRC uint32

func (c CRC) String() string {
	return fmt.Sprintf("%08x", uint32(c))
}

// MarshalXMLAttr implements xml.MarshalerAttr.
func (c CRC) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: c.String()}, nil
}

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (c *CRC) UnmarshalXMLAttr(attr xml.Attr) error {
	v, err := strconv.ParseUint(attr.Value, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid crc %q: %w", attr.Value, err)
	}
	*c = CRC(v)
	return nil
}
