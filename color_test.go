package fractview

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF0000", 0xFFFF0000},
		{"00ff00", 0xFF00FF00},
		{"#abc", 0xFFAABBCC},
		{"#80102030", 0x80102030},
		{"#000000", Black},
	}
	for _, tt := range tests {
		got, err := Hex(tt.in)
		if err != nil {
			t.Errorf("Hex(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Hex(%q) = %#08x, want %#08x", tt.in, uint32(got), uint32(tt.want))
		}
	}
}

func TestHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#GGGGGG", "-12345", "#1234567890"} {
		if _, err := Hex(in); err == nil {
			t.Errorf("Hex(%q) succeeded, want error", in)
		}
	}
}

func TestColor_String(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Black, "#000000"},
		{0xFF0A0B0C, "#0A0B0C"},
		{0x7F0A0B0C, "#7F0A0B0C"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Color(%#08x).String() = %q, want %q", uint32(tt.c), got, tt.want)
		}
		back, err := Hex(tt.want)
		if err != nil || back != tt.c {
			t.Errorf("Hex(%q) = %#08x, %v, want %#08x", tt.want, uint32(back), err, uint32(tt.c))
		}
	}
}

func TestColor_RGBA(t *testing.T) {
	c := ARGB(0xFF, 0x10, 0x20, 0x30)
	if c.A() != 0xFF || c.R() != 0x10 || c.G() != 0x20 || c.B() != 0x30 {
		t.Errorf("components of %v = %d %d %d %d", c, c.A(), c.R(), c.G(), c.B())
	}
	got := color.NRGBAModel.Convert(c).(color.NRGBA)
	if got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}) {
		t.Errorf("NRGBA = %+v", got)
	}
}

func TestColor_Text(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("#336699")); err != nil {
		t.Fatal(err)
	}
	text, err := c.MarshalText()
	if err != nil || string(text) != "#336699" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
	if err := c.UnmarshalText([]byte("red")); err == nil {
		t.Error("UnmarshalText(red) succeeded")
	}
}
