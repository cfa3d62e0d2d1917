package minecraft

import (
	"fmt"
	"testing"
)

func ExampleMerge() {
	base := &VersionDescriptor{
		ID:        "1.19.2",
		MainClass: "net.minecraft.client.main.Main",
		Libraries: Libraries{
			{Name: "commons-logging:commons-logging:1.2"},
		},
	}
	overlay := &VersionDescriptor{
		MainClass: "net.fabricmc.loader.impl.launch.knot.KnotClient",
		Libraries: Libraries{
			{Name: "net.fabricmc:fabric-loader:0.14.21"},
		},
	}
	merged := Merge(base, overlay)

	fmt.Println("MainClass:", merged.MainClass)
	fmt.Println("Libraries:")
	for _, lib := range merged.Libraries {
		fmt.Println(" - ", lib.Name)
	}
	// Output:
	// MainClass: net.fabricmc.loader.impl.launch.knot.KnotClient
	// Libraries:
	//  -  commons-logging:commons-logging:1.2
	//  -  net.fabricmc:fabric-loader:0.14.21
}

func TestMerge_MainClassAndLibraries(t *testing.T) {
	base := &VersionDescriptor{
		MainClass: "net.minecraft.client.main.Main",
		Libraries: Libraries{{Name: "a:a:1"}, {Name: "b:b:1"}},
	}
	overlay := &VersionDescriptor{
		MainClass: "net.fabricmc.loader.impl.launch.knot.KnotClient",
		Libraries: Libraries{{Name: "c:c:1"}},
	}

	merged := Merge(base, overlay)
	if merged.MainClass != overlay.MainClass {
		t.Errorf("overlay main class should win, got %q", merged.MainClass)
	}
	if len(merged.Libraries) != 3 {
		t.Errorf("expected 3 libraries, got %d", len(merged.Libraries))
	}
	// inputs stay untouched
	if len(base.Libraries) != 2 {
		t.Error("merge modified the base descriptor")
	}
	if base.MainClass != "net.minecraft.client.main.Main" {
		t.Error("merge modified the base main class")
	}
}

func TestMerge_EmptyOverlayMainClass(t *testing.T) {
	base := &VersionDescriptor{MainClass: "net.minecraft.client.main.Main"}
	merged := Merge(base, &VersionDescriptor{})
	if merged.MainClass != "net.minecraft.client.main.Main" {
		t.Errorf("empty overlay main class should not clear base, got %q", merged.MainClass)
	}
}

func TestMerge_Arguments(t *testing.T) {
	base := &VersionDescriptor{
		Arguments: &Arguments{
			Game: []Argument{{Value: stringSlice{"--username"}}},
			JVM:  []Argument{{Value: stringSlice{"-Xss1M"}}},
		},
	}
	overlay := &VersionDescriptor{
		Arguments: &Arguments{
			Game: []Argument{{Value: stringSlice{"--custom"}}},
		},
	}

	merged := Merge(base, overlay)
	if len(merged.Arguments.Game) != 2 {
		t.Errorf("expected 2 game arguments, got %d", len(merged.Arguments.Game))
	}
	if len(merged.Arguments.JVM) != 1 {
		t.Errorf("expected 1 jvm argument, got %d", len(merged.Arguments.JVM))
	}
	if merged.Arguments.Game[1].Value.String() != "--custom" {
		t.Error("overlay game arguments should be appended last")
	}
}

func TestMerge_LegacyArguments(t *testing.T) {
	base := &VersionDescriptor{MinecraftArguments: "--username ${auth_player_name}"}
	overlay := &VersionDescriptor{MinecraftArguments: "--username ${auth_player_name} --tweakClass forge"}

	merged := Merge(base, overlay)
	if merged.MinecraftArguments != overlay.MinecraftArguments {
		t.Errorf("overlay legacy arguments should be copied, got %q", merged.MinecraftArguments)
	}
	if !merged.Arguments.Empty() {
		t.Error("legacy merge should not fabricate a structured arguments block")
	}
}

func TestMerge_LibrariesAssociative(t *testing.T) {
	a := &VersionDescriptor{Libraries: Libraries{{Name: "a:a:1"}}}
	b := &VersionDescriptor{Libraries: Libraries{{Name: "b:b:1"}, {Name: "b:b2:1"}}}
	c := &VersionDescriptor{Libraries: Libraries{{Name: "c:c:1"}}}

	left := Merge(Merge(a, b), c).Libraries
	right := Merge(a, Merge(b, c)).Libraries

	if len(left) != len(right) {
		t.Fatalf("lengths differ: %d vs %d", len(left), len(right))
	}
	for n := range left {
		if left[n].Name != right[n].Name {
			t.Errorf("order differs at %d: %q vs %q", n, left[n].Name, right[n].Name)
		}
	}
}
