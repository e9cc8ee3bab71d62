package dng

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const (
	nsRDF       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsTIFF      = "http://ns.adobe.com/tiff/1.0/"
	nsEXIF      = "http://ns.adobe.com/exif/1.0/"
	nsEXIFEX    = "http://cipa.jp/exif/1.0/"
	nsXMP       = "http://ns.adobe.com/xap/1.0/"
	nsDC        = "http://purl.org/dc/elements/1.1/"
	nsPhotoshop = "http://ns.adobe.com/photoshop/1.0/"
)

// xmpProps maps "namespace|name" to the property's values. Simple properties
// have one value; rdf:Seq, rdf:Bag and rdf:Alt arrays keep their items in order.
type xmpProps map[string][]string

func xmpKey(ns, local string) string {
	return ns + "|" + local
}

func (p xmpProps) first(ns, local string) string {
	if v := p[xmpKey(ns, local)]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// parseXMP collects the properties of every rdf:Description in an XMP packet,
// in both attribute and element form. Properties read before a syntax error
// are returned with the error.
func parseXMP(packet []byte) (xmpProps, error) {
	props := make(xmpProps)
	packet = bytes.TrimRight(packet, "\x00 \r\n\t")
	if len(packet) == 0 {
		return props, nil
	}

	d := xml.NewDecoder(bytes.NewReader(packet))
	d.Strict = false

	var (
		depth     int
		descDepth = -1
		prop      string
		propDepth int
		text      strings.Builder
	)

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return props, nil
		}
		if err != nil {
			return props, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case prop == "" && t.Name.Space == nsRDF && t.Name.Local == "Description":
				descDepth = depth
				for _, a := range t.Attr {
					if a.Name.Space != "" && a.Name.Space != nsRDF && a.Name.Space != "xmlns" {
						k := xmpKey(a.Name.Space, a.Name.Local)
						props[k] = append(props[k], a.Value)
					}
				}
			case prop == "" && depth == descDepth+1:
				prop = xmpKey(t.Name.Space, t.Name.Local)
				propDepth = depth
				text.Reset()
			case prop != "" && t.Name.Space == nsRDF && t.Name.Local == "li":
				text.Reset()
			}
		case xml.CharData:
			if prop != "" {
				text.Write(t)
			}
		case xml.EndElement:
			switch {
			case prop != "" && t.Name.Space == nsRDF && t.Name.Local == "li":
				props[prop] = append(props[prop], text.String())
				text.Reset()
			case prop != "" && depth == propDepth:
				if _, ok := props[prop]; !ok {
					if v := strings.TrimSpace(text.String()); v != "" {
						props[prop] = []string{v}
					}
				}
				prop = ""
			case depth == descDepth:
				descDepth = -1
			}
			depth--
		}
	}
}

// mergeXMP copies XMP values into fields e leaves empty. EXIF values always win.
func mergeXMP(e *Exif, p xmpProps) {
	fillString := func(dst *string, vals ...string) {
		if *dst != "" {
			return
		}
		for _, v := range vals {
			if v != "" {
				*dst = v
				return
			}
		}
	}
	fillString(&e.Make, p.first(nsTIFF, "Make"))
	fillString(&e.Model, p.first(nsTIFF, "Model"))
	fillString(&e.Software, p.first(nsTIFF, "Software"), p.first(nsXMP, "CreatorTool"))
	fillString(&e.Artist, p.first(nsTIFF, "Artist"), p.first(nsDC, "creator"))
	fillString(&e.Copyright, p.first(nsTIFF, "Copyright"), p.first(nsDC, "rights"))

	fillRational := func(dst *URational, v string) {
		if dst.IsValid() || v == "" {
			return
		}
		if r, ok := parseURational(v); ok {
			*dst = r
		}
	}
	fillRational(&e.ExposureTime, p.first(nsEXIF, "ExposureTime"))
	fillRational(&e.FNumber, p.first(nsEXIF, "FNumber"))
	fillRational(&e.FocalLength, p.first(nsEXIF, "FocalLength"))

	fillUint := func(dst *uint32, v string) {
		if *dst != 0 || v == "" {
			return
		}
		if r, ok := parseURational(v); ok && r.D == 1 {
			*dst = r.N
		}
	}
	fillUint(&e.ISOSpeedRatings[0], p.first(nsEXIF, "ISOSpeedRatings"))
	fillUint(&e.ISOSpeed, p.first(nsEXIFEX, "ISOSpeed"))
	fillUint(&e.StandardOutputSensitivity, p.first(nsEXIFEX, "StandardOutputSensitivity"))
	fillUint(&e.RecommendedExposureIndex, p.first(nsEXIFEX, "RecommendedExposureIndex"))
	fillUint(&e.SensitivityType, p.first(nsEXIFEX, "SensitivityType"))
	fillUint(&e.FocalLengthIn35mmFilm, p.first(nsEXIF, "FocalLengthIn35mmFilm"))

	fillDate := func(dst *DateTimeInfo, vals ...string) {
		if dst.IsValid() {
			return
		}
		for _, v := range vals {
			if d := ParseISO8601(v); d.IsValid() {
				*dst = d
				return
			}
		}
	}
	fillDate(&e.DateTime, p.first(nsXMP, "ModifyDate"), p.first(nsTIFF, "DateTime"))
	fillDate(&e.DateTimeOriginal, p.first(nsEXIF, "DateTimeOriginal"), p.first(nsPhotoshop, "DateCreated"))
}
