// Package image holds the container-image data model the engine passes
// to provider image_build/image_publish/image_remove/image_unpublish
// operations. Image construction and catalog lookup are the engine's
// boundary concern; the shape below is fixed only where the engine
// touches it (name/tag identity and properties passed through to the
// provider).
package image

// Ref identifies an image by name and an optional tag. An empty Tag
// means the provider's own default tag resolution applies.
type Ref struct {
	Name string
	Tag  string
}

// String renders the ref the way a provider or registry expects it:
// "name:tag", or bare "name" when Tag is empty.
func (r Ref) String() string {
	if r.Tag == "" {
		return r.Name
	}
	return r.Name + ":" + r.Tag
}

// File describes a file to place into a built image, source resolved
// relative to the owning layout's base directory unless absolute.
type File struct {
	Source     string
	Target     string
	Properties map[string]any
}

// Command is a single provisioning or execution step, argv-style.
type Command struct {
	Args []string
}

// Definition is the build recipe for an image: files to copy in,
// provisioning commands run at build time, and execution commands that
// define the image's runtime entrypoint.
type Definition struct {
	Files      []File
	Provision  []Command
	Execution  []Command
}

// Image is a buildable, publishable container image. Extends, when
// non-nil, names a base image this one layers on top of.
type Image struct {
	Ref        Ref
	Extends    *Ref
	Definition Definition
	Properties map[string]any
}
