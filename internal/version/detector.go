package version

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersionFallbackConstant = "unknown"
	buildInfoDevelVersionValue     = "devel"
)

// BuildInfoProvider exposes runtime build metadata.
type BuildInfoProvider interface {
	Read() (*debug.BuildInfo, bool)
}

type runtimeBuildInfoProvider struct{}

func (runtimeBuildInfoProvider) Read() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}

// Detector resolves application version strings from build metadata.
type Detector struct {
	buildInfoProvider BuildInfoProvider
}

// NewDetector constructs a Detector with the supplied provider or a runtime default.
func NewDetector(buildInfoProvider BuildInfoProvider) *Detector {
	if buildInfoProvider == nil {
		buildInfoProvider = runtimeBuildInfoProvider{}
	}
	return &Detector{buildInfoProvider: buildInfoProvider}
}

// Version reports the module version recorded in the binary's build
// information, falling back to "unknown" for development builds.
func (detector *Detector) Version() string {
	buildInformation, buildInformationAvailable := detector.buildInfoProvider.Read()
	if !buildInformationAvailable || buildInformation == nil {
		return unknownVersionFallbackConstant
	}

	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) == 0 || moduleVersion == buildInfoDevelVersionValue || moduleVersion == "(devel)" {
		return unknownVersionFallbackConstant
	}
	return moduleVersion
}
