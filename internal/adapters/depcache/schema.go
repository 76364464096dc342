package depcache

import "encoding/xml"

type xmlDependencies struct {
	XMLName      xml.Name         `xml:"dependencies"`
	IncludePaths []xmlIncludePath `xml:"includePath"`
}

type xmlIncludePath struct {
	Signature string      `xml:"signature,attr"`
	Sources   []xmlSource `xml:"source"`
}

type xmlSource struct {
	File string `xml:"file,attr"`
	// LastModified is Unix milliseconds in lowercase hex.
	LastModified string       `xml:"lastModified,attr"`
	Includes     []xmlInclude `xml:"include"`
	SysIncludes  []xmlInclude `xml:"sysinclude"`
}

type xmlInclude struct {
	File string `xml:"file,attr"`
}
