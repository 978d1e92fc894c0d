package ubi

// Result describes a completed install.
type Result struct {
	Path        string // final installed file path
	ResolvedTag string // the tag actually installed, even when Tag was empty
	AssetName   string // the release asset name the picker chose
	SourceForge Forge  // the forge the asset actually came from
}
