package browser

import "fmt"

// ProvisionError reports that no usable browser/driver pairing could be
// brought up for the requested kind. It is fatal to the owning test case and
// is never retried here; the caller decides whether to rerun the whole test.
type ProvisionError struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provisioning %s failed at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}
