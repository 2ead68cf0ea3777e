// Package layout holds the multi-container deployment data model the
// engine's emerge operation takes. Emerge checks a Layout's container,
// platform and volume references and returns; it does not start any
// container on any platform. The shape mirrors the engine's image
// package: plain data, no behavior.
package layout

import "github.com/nimbusctl/stormengine/pkg/image"

// Port publishes a container port under a service name.
type Port struct {
	Value       int
	ServiceName string
}

// Container is one member of a Layout: an image reference plus the
// ports it exposes.
type Container struct {
	Name     string
	ImageRef image.Ref
	Ports    []Port
}

// VolumeMount mounts a named Volume at a path inside a Container.
type VolumeMount struct {
	VolumeName string
	Path       string
}

// ExecutionConfig is the per-platform setup configuration for an
// Execution.
type ExecutionConfig struct {
	Volumes []VolumeMount
}

// Execution binds a Container to a target platform with a setup
// configuration.
type Execution struct {
	ContainerName string
	PlatformName  string
	Configuration ExecutionConfig
}

// Volume is a named storage allocation a layout's containers can
// mount.
type Volume struct {
	Name        string
	StorageType string
	Size        string
}

// Layout is a complete multi-container deployment: its containers,
// the volumes they may mount, and the platform executions that
// realize them.
type Layout struct {
	Containers map[string]Container
	Volumes    map[string]Volume
	Executions []Execution
}
