package component

// ApplyTo merges this version file's contents into profile, in the
// order the launch profile contract requires: libraries (dedup by
// group:artifact, later writer wins on conflict), jar mods in declared
// order, main jar (last writer wins), argument fragments, assets index
// (adopted only if declared and newer), then the file's own problem
// severity.
func (v *VersionFile) ApplyTo(profile ProfileTarget) error {
	profile.MergeLibraries(v.Libraries)
	profile.AppendJarMods(v.JarMods)

	if v.MainJar != nil {
		profile.SetMainJar(v.MainJar)
	}

	profile.AppendGameArguments(v.GameArguments)
	profile.AppendJVMArguments(v.JVMArguments)

	if v.AssetsIndex != nil {
		profile.AdoptAssetsIndex(v.AssetsIndex)
	}

	if v.MainClass != "" {
		profile.SetMainClass(v.MainClass)
	}

	profile.ApplyProblemSeverity(v.ProblemSeverity())
	return nil
}
