package launch

import (
	"testing"

	"github.com/launchbox/launchbox/internals/minecraft"
)

func TestJavaMajor(t *testing.T) {
	tests := []struct {
		name string
		desc minecraft.VersionDescriptor
		want int
	}{
		{
			name: "descriptor knows",
			desc: minecraft.VersionDescriptor{
				ID:          "1.19.2",
				JavaVersion: &minecraft.JavaVersion{Component: "java-runtime-gamma", MajorVersion: 17},
			},
			want: 17,
		},
		{
			name: "old version falls back to 8",
			desc: minecraft.VersionDescriptor{ID: "1.12.2"},
			want: 8,
		},
		{
			name: "1.17 wants 16",
			desc: minecraft.VersionDescriptor{ID: "1.17.1"},
			want: 16,
		},
		{
			name: "1.18 wants 17",
			desc: minecraft.VersionDescriptor{ID: "1.18.2"},
			want: 17,
		},
		{
			name: "unparseable id assumes current",
			desc: minecraft.VersionDescriptor{ID: "22w44a"},
			want: 17,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JavaMajor(&tt.desc); got != tt.want {
				t.Errorf("JavaMajor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefaultMaxHeapMB(t *testing.T) {
	got := defaultMaxHeapMB()
	if got < 512 {
		t.Errorf("default heap suspiciously small: %d MiB", got)
	}
}
