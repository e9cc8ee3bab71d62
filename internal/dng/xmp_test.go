package dng

import (
	"encoding/binary"
	"testing"
)

// TestParseXMP_AttributeAndElementForms는 테스트 코드 동작을 검증하거나 보조합니다.
func TestParseXMP_AttributeAndElementForms(t *testing.T) {
	// 속성 형태, 단순 요소, 배열 요소 모두 같은 키로 모여야 한다.
	packet := []byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description xmlns:exif="http://ns.adobe.com/exif/1.0/" xmlns:xmp="http://ns.adobe.com/xap/1.0/" exif:FNumber="28/10">
<xmp:ModifyDate>2023-01-02T03:04:05Z</xmp:ModifyDate>
</rdf:Description>
<rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:rights><rdf:Alt><rdf:li xml:lang="x-default">(c) Park</rdf:li></rdf:Alt></dc:rights>
</rdf:Description>
</rdf:RDF></x:xmpmeta>` + "\x00\x00")

	props, err := parseXMP(packet)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := props.first(nsEXIF, "FNumber"); got != "28/10" {
		t.Fatalf("unexpected FNumber: %q", got)
	}
	if got := props.first(nsXMP, "ModifyDate"); got != "2023-01-02T03:04:05Z" {
		t.Fatalf("unexpected ModifyDate: %q", got)
	}
	if got := props.first(nsDC, "rights"); got != "(c) Park" {
		t.Fatalf("unexpected rights: %q", got)
	}
}

// TestParseXMP_BrokenPacketKeepsEarlierProperties는 테스트 코드 동작을 검증하거나 보조합니다.
func TestParseXMP_BrokenPacketKeepsEarlierProperties(t *testing.T) {
	// 깨진 패킷은 에러를 돌려주되 그 전까지 읽은 값은 유지해야 한다.
	packet := []byte(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description xmlns:tiff="http://ns.adobe.com/tiff/1.0/" tiff:Make="Sigma"><tiff:Model>fp`)
	props, err := parseXMP(packet)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if got := props.first(nsTIFF, "Make"); got != "Sigma" {
		t.Fatalf("unexpected Make: %q", got)
	}
}

// TestMergeXMP_OnlyFillsEmptyFields는 테스트 코드 동작을 검증하거나 보조합니다.
func TestMergeXMP_OnlyFillsEmptyFields(t *testing.T) {
	// 이미 값이 있는 EXIF 필드는 유지되고 빈 필드만 XMP로 채워져야 한다.
	e := &Exif{
		Model:        "EXIF Model",
		ExposureTime: URational{1, 60},
		DateTime:     ParseEXIFDateTime("2020:01:01 00:00:00"),
	}
	props := xmpProps{
		xmpKey(nsTIFF, "Model"):                       {"XMP Model"},
		xmpKey(nsXMP, "CreatorTool"):                  {"Lightroom"},
		xmpKey(nsEXIF, "ExposureTime"):                {"1/250"},
		xmpKey(nsEXIF, "FocalLength"):                 {"35/1"},
		xmpKey(nsEXIFEX, "ISOSpeed"):                  {"800"},
		xmpKey(nsEXIFEX, "StandardOutputSensitivity"): {"not a number"},
		xmpKey(nsXMP, "ModifyDate"):                   {"2024-01-01T00:00:00Z"},
		xmpKey(nsPhotoshop, "DateCreated"):            {"2019-07-08T09:10:11+01:00"},
	}

	mergeXMP(e, props)

	if e.Model != "EXIF Model" || e.Software != "Lightroom" {
		t.Fatalf("unexpected strings: model=%q software=%q", e.Model, e.Software)
	}
	if e.ExposureTime != (URational{1, 60}) || e.FocalLength != (URational{35, 1}) {
		t.Fatalf("unexpected rationals: %v %v", e.ExposureTime, e.FocalLength)
	}
	if e.ISOSpeed != 800 || e.StandardOutputSensitivity != 0 {
		t.Fatalf("unexpected sensitivity: %d %d", e.ISOSpeed, e.StandardOutputSensitivity)
	}
	if got := e.DateTime.EncodeISO8601(); got != "2020-01-01T00:00:00" {
		t.Fatalf("EXIF DateTime must win, got %s", got)
	}
	if got := e.DateTimeOriginal.EncodeISO8601(); got != "2019-07-08T09:10:11+01:00" {
		t.Fatalf("unexpected DateTimeOriginal: %s", got)
	}
}

// TestUnpackRow_PackedBits는 테스트 코드 동작을 검증하거나 보조합니다.
func TestUnpackRow_PackedBits(t *testing.T) {
	// 12비트 샘플은 MSB부터 채워진 비트열에서, 16비트는 파일 바이트 순서로 읽어야 한다.
	var got []uint32
	put := func(_ uint64, v uint32) { got = append(got, v) }

	unpackRow([]byte{0xAB, 0xCD, 0xEF}, 2, 12, binary.LittleEndian, put)
	if len(got) != 2 || got[0] != 0xABC || got[1] != 0xDEF {
		t.Fatalf("unexpected 12-bit samples: %x", got)
	}

	got = nil
	unpackRow([]byte{0x34, 0x12, 0x12, 0x34}, 1, 16, binary.LittleEndian, put)
	unpackRow([]byte{0x12, 0x34}, 1, 16, binary.BigEndian, put)
	if got[0] != 0x1234 || got[1] != 0x1234 {
		t.Fatalf("unexpected 16-bit samples: %x", got)
	}
}
