// dashboard_handler.go -- Server-rendered pages: GET / and GET /login.
//
// Page renders use the read-only bridge: the session is reconstructed from
// the incoming cookies and no Set-Cookie can ever be emitted here. A session
// nearing expiry is rendered as-is; the client relay pushes the refreshed
// session back through /auth/session.
package web

import (
	"net/http"
	"time"

	"github.com/forgetmenot/leafboard/internal/supabase"
	"golang.org/x/sync/errgroup"
)

// eventsShown caps the dashboard's touch event list, newest first.
const eventsShown = 20

type pairView struct {
	ID           string
	SenderName   string
	ReceiverName string
}

type eventView struct {
	TriggeredAt  time.Time
	SenderName   string
	ReceiverName string
}

type dashboardView struct {
	Email         string
	AccessToken   string
	Devices       []supabase.Device
	Senders       []supabase.Device
	Receivers     []supabase.Device
	Pairs         []pairView
	Events        []eventView
	TouchEventURL string
}

// Dashboard handles GET /.
// Signed-out visitors are redirected to /login. Devices, pairs, and events
// are independent read-only queries and fetched concurrently.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	auth := h.readOnlyAuth(r)
	sess := auth.GetSession()
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	token := sess.AccessToken

	var (
		devices []supabase.Device
		pairs   []supabase.Pair
		events  []supabase.TouchEvent
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		devices, err = h.Data.ListDevices(ctx, token)
		return err
	})
	g.Go(func() (err error) {
		pairs, err = h.Data.ListPairs(ctx, token)
		return err
	})
	g.Go(func() (err error) {
		events, err = h.Data.ListEvents(ctx, token, eventsShown)
		return err
	})
	if err := g.Wait(); err != nil {
		InternalServerError(w, r, err)
		return
	}

	h.render(w, r, "dashboard.tmpl", buildDashboardView(sess, devices, pairs, events, h.TouchEventURL))
}

// Login handles GET /login. Already-signed-in visitors go straight home.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.readOnlyAuth(r).GetSession() != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, "login.tmpl", nil)
}

// buildDashboardView enriches raw rows for the template: events are
// attributed to device names through their pair, with explicit fallbacks for
// deleted pairs and unnamed devices.
func buildDashboardView(sess *supabase.Session, devices []supabase.Device, pairs []supabase.Pair, events []supabase.TouchEvent, touchEventURL string) dashboardView {
	view := dashboardView{
		AccessToken:   sess.AccessToken,
		Devices:       devices,
		TouchEventURL: touchEventURL,
	}
	if claims, err := sess.Claims(); err == nil {
		view.Email = claims.Email
	}

	deviceByID := make(map[string]supabase.Device, len(devices))
	for _, d := range devices {
		deviceByID[d.ID] = d
		switch d.Role {
		case "sender":
			view.Senders = append(view.Senders, d)
		case "receiver":
			view.Receivers = append(view.Receivers, d)
		}
	}

	pairByID := make(map[string]supabase.Pair, len(pairs))
	for _, p := range pairs {
		pairByID[p.ID] = p
		view.Pairs = append(view.Pairs, pairView{
			ID:           p.ID,
			SenderName:   deviceName(deviceByID, p.SenderID, "Unassigned sender"),
			ReceiverName: deviceName(deviceByID, p.ReceiverID, "Unassigned receiver"),
		})
	}

	for _, ev := range events {
		e := eventView{TriggeredAt: ev.TriggeredAt}
		if p, ok := pairByID[ev.PairID]; ok {
			e.SenderName = deviceName(deviceByID, p.SenderID, "Unassigned sender")
			e.ReceiverName = deviceName(deviceByID, p.ReceiverID, "Unassigned receiver")
		} else {
			// Pair deleted after the event was recorded.
			e.SenderName = "Unknown sender"
			e.ReceiverName = "Unknown receiver"
		}
		view.Events = append(view.Events, e)
	}
	return view
}

// deviceName prefers the user-given name, falls back to the device id, and
// finally to the given placeholder when the device no longer exists.
func deviceName(byID map[string]supabase.Device, id, missing string) string {
	d, ok := byID[id]
	if !ok {
		return missing
	}
	if d.Name != nil && *d.Name != "" {
		return *d.Name
	}
	return d.ID
}
