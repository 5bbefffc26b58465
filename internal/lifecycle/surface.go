//go:generate mockgen -source=surface.go -destination=mocks/mock_surface.go -package=mocks

package lifecycle

// LoadingSurface is the host element shown while the client loads. Hosts
// without one (headless runs) pass nil, which turns every call into a
// no-op.
type LoadingSurface interface {
	// Hide starts hiding the surface after a successful load.
	Hide()
	// Remove detaches the surface for good.
	Remove()
	// MarkError switches the surface to its failed appearance.
	MarkError()
	// ShowMessage renders a user-facing message on the surface.
	ShowMessage(msg string)
	// AttachReload offers the user a way to reload the client. reload is
	// one-shot: calls after the first are ignored.
	AttachReload(reload func())
}

// NopSurface ignores every call.
type NopSurface struct{}

func (NopSurface) Hide()               {}
func (NopSurface) Remove()             {}
func (NopSurface) MarkError()          {}
func (NopSurface) ShowMessage(string)  {}
func (NopSurface) AttachReload(func()) {}
