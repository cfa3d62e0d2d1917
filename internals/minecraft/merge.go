package minecraft

// Merge layers a mod loader overlay on top of a base descriptor and
// returns the combined result. Neither input is modified.
//
// Libraries are appended in order (overlay entries last, so they win
// class loading precedence on the classpath). The overlay's main class
// replaces the base one when set. Argument arrays concatenate; the
// legacy minecraftArguments line is only taken from the overlay when
// neither side uses the structured schema.
func Merge(base *VersionDescriptor, overlay *VersionDescriptor) *VersionDescriptor {
	merged := *base

	merged.Libraries = make(Libraries, 0, len(base.Libraries)+len(overlay.Libraries))
	merged.Libraries = append(merged.Libraries, base.Libraries...)
	merged.Libraries = append(merged.Libraries, overlay.Libraries...)

	if overlay.MainClass != "" {
		merged.MainClass = overlay.MainClass
	}

	switch {
	case !base.Arguments.Empty() || !overlay.Arguments.Empty():
		merged.Arguments = mergeArguments(base.Arguments, overlay.Arguments)
	case overlay.MinecraftArguments != "":
		merged.MinecraftArguments = overlay.MinecraftArguments
	}

	if overlay.InheritsFrom != "" {
		merged.InheritsFrom = overlay.InheritsFrom
	}
	if overlay.Jar != "" {
		merged.Jar = overlay.Jar
	}
	if overlay.Type != "" {
		merged.Type = overlay.Type
	}
	if overlay.FabricVersion != "" {
		merged.FabricVersion = overlay.FabricVersion
	}
	if overlay.ForgeVersion != "" {
		merged.ForgeVersion = overlay.ForgeVersion
	}

	return &merged
}

func mergeArguments(base *Arguments, overlay *Arguments) *Arguments {
	merged := &Arguments{}
	if base != nil {
		merged.Game = append(merged.Game, base.Game...)
		merged.JVM = append(merged.JVM, base.JVM...)
	}
	if overlay != nil {
		merged.Game = append(merged.Game, overlay.Game...)
		merged.JVM = append(merged.JVM, overlay.JVM...)
	}
	return merged
}
