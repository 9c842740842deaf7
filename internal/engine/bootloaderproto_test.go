package engine

import "testing"

func TestBuildFWUpdateRequest(t *testing.T) {
	p := buildFWUpdateRequest(38912, 0x08000000, 0x05)
	if len(p) != 15 {
		t.Fatalf("expected 15-byte packet, got %d", len(p))
	}
	if p[0] != btlMagic || p[1] != cmdFWUpdateRequest {
		t.Fatalf("unexpected header: % x", p[:2])
	}
	for _, b := range p[11:15] {
		if b != 0xAA {
			t.Fatalf("expected CRC placeholder 0xAA, got % x", p[11:15])
		}
	}
}

func TestParseIDResponse(t *testing.T) {
	payload := []byte{btlMagic, cmdIDResponse, 1, 0, 1, 0, 0x78, 0x56, 0x34, 0x12}
	btl, crc, ok := parseIDResponse(payload)
	if !ok {
		t.Fatal("expected ok")
	}
	if btl != 0x00010001 || crc != 0x12345678 {
		t.Fatalf("unexpected values: btl=%#x crc=%#x", btl, crc)
	}
}

func TestParseIDResponseRejectsWrongCommand(t *testing.T) {
	payload := []byte{btlMagic, cmdFWUpdateResponse, 0, 0, 0, 0, 0, 0, 0, 0}
	if _, _, ok := parseIDResponse(payload); ok {
		t.Fatal("expected rejection of non-ID-response payload")
	}
}

func TestParseFWDataRequestExactSize(t *testing.T) {
	payload := []byte{btlMagic, cmdFWDataRequest, 0, 4, 0, 0, 0, 1}
	offset, length, ok := parseFWDataRequest(payload)
	if !ok {
		t.Fatal("expected ok")
	}
	if offset != 0x00000400 || length != 256 {
		t.Fatalf("unexpected offset=%#x length=%d", offset, length)
	}
}

func TestParseFWDataRequestRejectsWrongSize(t *testing.T) {
	payload := []byte{btlMagic, cmdFWDataRequest, 0, 0, 0, 0, 0}
	if _, _, ok := parseFWDataRequest(payload); ok {
		t.Fatal("expected rejection of short payload")
	}
}

func TestBuildFWDataResponseLayout(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	p := buildFWDataResponse(0, 0x100, data)
	if len(p) != 9+len(data) {
		t.Fatalf("unexpected length %d", len(p))
	}
	if p[0] != btlMagic || p[1] != cmdFWDataResponse || p[2] != 0 {
		t.Fatalf("unexpected header: % x", p[:3])
	}
}

func TestBuildV1HeaderLayout(t *testing.T) {
	h := buildV1Header(1024, 0x08000000, 5, 0xAB)
	if len(h) != 10 {
		t.Fatalf("expected 10 bytes, got %d", len(h))
	}
	if h[8] != 5 || h[9] != 0xAB {
		t.Fatalf("unexpected trailing fields: % x", h[8:])
	}
}

func TestParseV1GetRequest(t *testing.T) {
	buf := []byte{'G', 'E', 'T', 0x34, 0x12, ';'}
	page, ok := parseV1GetRequest(buf)
	if !ok {
		t.Fatal("expected ok")
	}
	if page != 0x1234 {
		t.Fatalf("expected page 0x1234, got %#x", page)
	}
}

func TestParseV1GetRequestRejectsMalformed(t *testing.T) {
	cases := [][]byte{
		{'G', 'E', 'T', 0, 0},
		{'X', 'E', 'T', 0, 0, ';'},
		{'G', 'E', 'T', 0, 0, '?'},
	}
	for _, c := range cases {
		if _, ok := parseV1GetRequest(c); ok {
			t.Fatalf("expected rejection of %q", c)
		}
	}
}
