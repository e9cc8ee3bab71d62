package metadata

import (
	"testing"

	"github.com/On-Jun9/dngprobe/internal/dng"
	"github.com/On-Jun9/dngprobe/pkg/types"
)

type fakeNegative struct {
	exif       *dng.Exif
	cropH      dng.URational
	cropV      dng.URational
	stage1     *dng.Image
	monochrome bool
	synced     int
}

func (f *fakeNegative) SynchronizeMetadata()            { f.synced++ }
func (f *fakeNegative) Exif() *dng.Exif                 { return f.exif }
func (f *fakeNegative) DefaultCropSizeH() dng.URational { return f.cropH }
func (f *fakeNegative) DefaultCropSizeV() dng.URational { return f.cropV }
func (f *fakeNegative) Stage1Image() *dng.Image         { return f.stage1 }
func (f *fakeNegative) IsMonochrome() bool              { return f.monochrome }

func newFakeNegative() *fakeNegative {
	return &fakeNegative{
		exif: &dng.Exif{
			Make:         "Pentax",
			Model:        "K-3 Mark III Monochrome",
			ExposureTime: dng.URational{N: 1, D: 250},
			FNumber:      dng.URational{N: 56, D: 10},
			FocalLength:  dng.URational{N: 35, D: 1},
		},
		cropH:  dng.URational{N: 6000, D: 1},
		cropV:  dng.URational{N: 4000, D: 1},
		stage1: &dng.Image{Width: 6016, Height: 4016, Planes: 1},
	}
}

// TestExtract_CopiesFields는 테스트 코드 동작을 검증하거나 보조합니다.
func TestExtract_CopiesFields(t *testing.T) {
	// 동기화 후 정규 뷰의 필드가 변환되어 레코드에 들어가야 한다.
	neg := newFakeNegative()
	neg.exif.FocalLengthIn35mmFilm = 53
	neg.exif.DateTimeOriginal = dng.ParseEXIFDateTime("2024:02:03 04:05:06")

	rec := Extract(neg)

	if neg.synced != 1 {
		t.Fatalf("expected SynchronizeMetadata once, got %d", neg.synced)
	}
	if rec.Make != "Pentax" || rec.Model != "K-3 Mark III Monochrome" || rec.Software != "" {
		t.Fatalf("unexpected text fields: %+v", rec)
	}
	if rec.Width != 6000 || rec.Height != 4000 || rec.RawWidth != 6016 || rec.RawHeight != 4016 {
		t.Fatalf("unexpected dimensions: %+v", rec)
	}
	if rec.ExposureTime != 0.004 || rec.FNumber != 5.6 || rec.FocalLength != 35 {
		t.Fatalf("unexpected exposure: %v %v %v", rec.ExposureTime, rec.FNumber, rec.FocalLength)
	}
	if rec.FocalLength35mm != 53 {
		t.Fatalf("unexpected 35mm focal length: %d", rec.FocalLength35mm)
	}
	if rec.DateTime != "" || rec.DateTimeOriginal != "2024-02-03T04:05:06" {
		t.Fatalf("unexpected dates: %q %q", rec.DateTime, rec.DateTimeOriginal)
	}
}

// TestExtract_NilExifReturnsEmptyRecord는 테스트 코드 동작을 검증하거나 보조합니다.
func TestExtract_NilExifReturnsEmptyRecord(t *testing.T) {
	// 정규 메타데이터 뷰가 없으면 실패 대신 빈 레코드를 돌려줘야 한다.
	neg := newFakeNegative()
	neg.exif = nil
	if rec := Extract(neg); rec != (types.MetadataRecord{}) {
		t.Fatalf("expected empty record, got %+v", rec)
	}
}

// TestExtract_ZeroDenominatorIsZero는 테스트 코드 동작을 검증하거나 보조합니다.
func TestExtract_ZeroDenominatorIsZero(t *testing.T) {
	// 분모가 0인 유리수는 정확히 0.0으로 변환되어야 한다.
	neg := newFakeNegative()
	neg.exif.ExposureTime = dng.URational{N: 1, D: 0}
	neg.exif.FNumber = dng.URational{}
	rec := Extract(neg)
	if rec.ExposureTime != 0 || rec.FNumber != 0 {
		t.Fatalf("expected zero, got %v %v", rec.ExposureTime, rec.FNumber)
	}
}

// TestExtract_ISOFallbackChain는 테스트 코드 동작을 검증하거나 보조합니다.
func TestExtract_ISOFallbackChain(t *testing.T) {
	// ISOSpeed, ISOSpeedRatings[0], StandardOutputSensitivity 순서로 첫 0이 아닌 값을 써야 한다.
	cases := []struct {
		a, b, c uint32
		want    uint32
	}{
		{0, 0, 5, 5},
		{0, 7, 5, 7},
		{9, 7, 5, 9},
		{0, 0, 0, 0},
	}
	for _, tc := range cases {
		neg := newFakeNegative()
		neg.exif.ISOSpeed = tc.a
		neg.exif.ISOSpeedRatings = [3]uint32{tc.b, 800, 1600}
		neg.exif.StandardOutputSensitivity = tc.c
		if got := Extract(neg).ISO; got != tc.want {
			t.Fatalf("ISO(%d,%d,%d) = %d, want %d", tc.a, tc.b, tc.c, got, tc.want)
		}
	}
}

// TestExtract_DimensionFallback는 테스트 코드 동작을 검증하거나 보조합니다.
func TestExtract_DimensionFallback(t *testing.T) {
	// 크롭 크기가 잘려서 0이 되면 너비/높이 모두 RAW 크기를 써야 한다.
	for _, crop := range [][2]dng.URational{
		{{N: 1, D: 2}, {N: 4000, D: 1}},
		{{N: 6000, D: 1}, {N: 3, D: 0}},
	} {
		neg := newFakeNegative()
		neg.cropH, neg.cropV = crop[0], crop[1]
		rec := Extract(neg)
		if rec.Width != 6016 || rec.Height != 4016 {
			t.Fatalf("crop %v: expected raw dimensions, got %dx%d", crop, rec.Width, rec.Height)
		}
	}

	neg := newFakeNegative()
	neg.cropH = dng.URational{N: 11999, D: 2}
	if rec := Extract(neg); rec.Width != 5999 {
		t.Fatalf("expected truncated width 5999, got %d", rec.Width)
	}
}

// TestExtract_ColorSpaceLabel는 테스트 코드 동작을 검증하거나 보조합니다.
func TestExtract_ColorSpaceLabel(t *testing.T) {
	// 흑백이면 Grayscale, 아니면 RGB이고 평면 수는 stage 1 이미지를 따라야 한다.
	neg := newFakeNegative()
	neg.monochrome = true
	rec := Extract(neg)
	if !rec.IsMonochrome || rec.ColorSpace != "Grayscale" || rec.ColorPlanes != 1 {
		t.Fatalf("unexpected monochrome record: %+v", rec)
	}

	neg = newFakeNegative()
	neg.stage1.Planes = 3
	rec = Extract(neg)
	if rec.IsMonochrome || rec.ColorSpace != "RGB" || rec.ColorPlanes != 3 {
		t.Fatalf("unexpected color record: %+v", rec)
	}
}

// TestExtract_MissingStage1Image는 테스트 코드 동작을 검증하거나 보조합니다.
func TestExtract_MissingStage1Image(t *testing.T) {
	// stage 1 이미지가 없으면 RAW 크기와 평면 수는 0으로 남아야 한다.
	neg := newFakeNegative()
	neg.stage1 = nil
	rec := Extract(neg)
	if rec.RawWidth != 0 || rec.RawHeight != 0 || rec.ColorPlanes != 0 {
		t.Fatalf("unexpected raw fields: %+v", rec)
	}
	if rec.Width != 6000 || rec.Height != 4000 {
		t.Fatalf("crop dimensions must still apply: %dx%d", rec.Width, rec.Height)
	}
}
