package generator

import "fmt"

// InvalidNameError reports a task name that normalizes to an empty or
// reserved path component.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid task name %q: normalizes to an unusable path component", e.Name)
}

// UnknownTemplateError reports a template selector that matches nothing in
// the catalog.
type UnknownTemplateError struct {
	Template string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.Template)
}

// AlreadyExistsError reports that the target artifact is already present and
// overwrite was not requested. The existing artifact is left untouched.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("artifact %q already exists (pass --overwrite to replace it)", e.Path)
}

// StorageError wraps a failure from the underlying store. The atomic write
// contract means a StorageError never implies a partial artifact.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
