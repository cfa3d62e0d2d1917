package minecraft

import (
	"path/filepath"
	"testing"

	"github.com/launchbox/launchbox/internals/sources"
)

func TestLibrary_Filepath(t *testing.T) {
	lib := Library{Name: "org.ow2.asm:asm:9.3"}
	want := filepath.FromSlash("org/ow2/asm/asm/9.3/asm-9.3.jar")
	if got := lib.Filepath(); got != want {
		t.Errorf("Filepath() = %q, want %q", got, want)
	}

	classified := Library{Name: "org.lwjgl:lwjgl:3.3.1:natives-linux"}
	want = filepath.FromSlash("org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1-natives-linux.jar")
	if got := classified.Filepath(); got != want {
		t.Errorf("Filepath() = %q, want %q", got, want)
	}

	recorded := Library{Name: "org.ow2.asm:asm:9.3"}
	recorded.Downloads.Artifact.Path = "org/ow2/asm/asm/9.3/asm-9.3.jar"
	if got := recorded.Filepath(); got != filepath.FromSlash("org/ow2/asm/asm/9.3/asm-9.3.jar") {
		t.Errorf("Filepath() = %q", got)
	}
}

func TestLibrary_DownloadURL(t *testing.T) {
	tests := []struct {
		name   string
		lib    Library
		source sources.Source
		want   string
	}{
		{
			name: "explicit artifact url",
			lib: func() Library {
				l := Library{Name: "org.ow2.asm:asm:9.3"}
				l.Downloads.Artifact.URL = "https://libraries.minecraft.net/org/ow2/asm/asm/9.3/asm-9.3.jar"
				return l
			}(),
			source: sources.Mojang,
			want:   "https://libraries.minecraft.net/org/ow2/asm/asm/9.3/asm-9.3.jar",
		},
		{
			name: "explicit artifact url rewritten for mirror",
			lib: func() Library {
				l := Library{Name: "org.ow2.asm:asm:9.3"}
				l.Downloads.Artifact.URL = "https://libraries.minecraft.net/org/ow2/asm/asm/9.3/asm-9.3.jar"
				return l
			}(),
			source: sources.BMCLAPI,
			want:   "https://bmclapi2.bangbang93.com/maven/org/ow2/asm/asm/9.3/asm-9.3.jar",
		},
		{
			name:   "maven base url",
			lib:    Library{Name: "net.fabricmc:fabric-loader:0.14.21", URL: "https://maven.fabricmc.net/"},
			source: sources.Mojang,
			want:   "https://maven.fabricmc.net/net/fabricmc/fabric-loader/0.14.21/fabric-loader-0.14.21.jar",
		},
		{
			name:   "derived from coordinate",
			lib:    Library{Name: "org.ow2.asm:asm:9.3"},
			source: sources.Mojang,
			want:   "https://libraries.minecraft.net/org/ow2/asm/asm/9.3/asm-9.3.jar",
		},
		{
			name:   "derived from coordinate on mirror",
			lib:    Library{Name: "org.ow2.asm:asm:9.3"},
			source: sources.BMCLAPI,
			want:   "https://bmclapi2.bangbang93.com/maven/org/ow2/asm/asm/9.3/asm-9.3.jar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lib.DownloadURL(tt.source); got != tt.want {
				t.Errorf("DownloadURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLibrary_Native(t *testing.T) {
	classifier := Library{Name: "org.lwjgl:lwjgl:3.2.2"}
	classifier.Natives = map[string]string{"linux": "natives-linux"}
	if !classifier.Native("linux", "x64") {
		t.Error("natives map entry should classify as native")
	}
	if classifier.Native("windows", "x64") {
		t.Error("missing natives map entry should not classify as native")
	}

	suffixed := Library{Name: "org.lwjgl:lwjgl:3.3.1:natives-linux"}
	if !suffixed.Native("linux", "x64") {
		t.Error("natives- classifier segment should classify as native")
	}

	plain := Library{Name: "org.ow2.asm:asm:9.3"}
	if plain.Native("linux", "x64") {
		t.Error("plain library misclassified as native")
	}
}

func TestLibrary_NativeArtifact(t *testing.T) {
	lib := Library{Name: "org.lwjgl:lwjgl:3.2.2"}
	lib.Natives = map[string]string{"windows": "natives-windows-${arch}"}
	lib.Downloads.Classifiers = map[string]Artifact{
		"natives-windows-64": {Path: "org/lwjgl/lwjgl/3.2.2/lwjgl-3.2.2-natives-windows-64.jar"},
	}

	got, ok := lib.NativeArtifact("windows", "x64")
	if !ok {
		t.Fatal("expected native artifact")
	}
	if got.Path != "org/lwjgl/lwjgl/3.2.2/lwjgl-3.2.2-natives-windows-64.jar" {
		t.Errorf("unexpected artifact path %q", got.Path)
	}

	if _, ok := lib.NativeArtifact("linux", "x64"); ok {
		t.Error("expected no native artifact for linux")
	}
}

func TestLibraries_RequiredFor(t *testing.T) {
	libs := Libraries{
		{Name: "a:a:1"},
		{Name: "b:b:1", Rules: []Rule{{Action: "allow", OS: OS{Name: "osx"}}}},
		{Name: "c:c:1", Rules: []Rule{{Action: "allow"}, {Action: "disallow", OS: OS{Name: "linux"}}}},
		{Name: "d:d:1"},
	}

	required := libs.RequiredFor("linux", "x64")
	if len(required) != 2 {
		t.Fatalf("expected 2 required libraries, got %d", len(required))
	}
	// declaration order survives filtering
	if required[0].Name != "a:a:1" || required[1].Name != "d:d:1" {
		t.Errorf("unexpected order: %v, %v", required[0].Name, required[1].Name)
	}
}
