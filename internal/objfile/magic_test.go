package objfile

import "testing"

func TestDetectKind(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Kind
	}{
		{"macho64", []byte{0xfe, 0xed, 0xfa, 0xcf, 0, 0, 0, 0}, KindMachO},
		{"macho64-swapped", []byte{0xcf, 0xfa, 0xed, 0xfe, 0, 0, 0, 0}, KindMachO},
		{"macho32", []byte{0xfe, 0xed, 0xfa, 0xce, 0, 0, 0, 0}, KindMachO},
		{"fat", []byte{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 2}, KindFat},
		{"archive", []byte("!<arch>\n"), KindArchive},
		{"garbage", []byte{0x00, 0x01, 0x02, 0x03}, KindUnknown},
		{"short", []byte{0x00}, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectKind(tc.data); got != tc.want {
				t.Errorf("detectKind(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
