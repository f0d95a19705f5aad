package session

// Panel routes the coordinator navigates between.
const (
	RouteHome  = "/"
	RouteLogin = "/auth"
)

// Navigator moves the panel to a route. The UI shell satisfies it.
type Navigator interface {
	NavigateTo(route string)
}

// Coordinator turns session changes into navigation. It is the only place
// that decides where a signed-out user lands; the store itself knows nothing
// about routes.
type Coordinator struct {
	nav         Navigator
	unsubscribe func()
}

func NewCoordinator(store *Store, nav Navigator) *Coordinator {
	c := &Coordinator{nav: nav}
	c.unsubscribe = store.Subscribe(c.onSessionChange)
	return c
}

func (c *Coordinator) onSessionChange(session *Session) {
	if session == nil {
		c.nav.NavigateTo(RouteLogin)
	}
}

// Stop detaches the coordinator from the store.
func (c *Coordinator) Stop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}
