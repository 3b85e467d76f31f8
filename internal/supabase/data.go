// data.go -- PostgREST client for the dashboard tables.
//
// Row-level security runs on the Supabase side: every call carries the
// user's access token as the bearer, so each user only ever sees their own
// devices, pairs, and events.
package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Device is one leaf: a touch sender or an LED receiver.
type Device struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      *string   `json:"name"`
	Role      string    `json:"role"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDevice is the insert payload for a device. UserID is filled in by the
// database default (auth.uid()), not by us.
type NewDevice struct {
	Name   *string `json:"name"`
	Role   string  `json:"role"`
	Secret string  `json:"secret"`
}

// Pair links a sender to a receiver.
type Pair struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TouchEvent is one recorded touch, attributed to a pair.
type TouchEvent struct {
	ID          string    `json:"id"`
	PairID      string    `json:"pair_id"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// DataClient issues REST calls against the project's PostgREST endpoint.
// Safe for concurrent use; per-user scoping comes from the token argument.
type DataClient struct {
	baseURL string
	anonKey string
	hc      *http.Client
}

// NewDataClient builds a PostgREST client from the shared config.
func NewDataClient(cfg Config) *DataClient {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &DataClient{baseURL: strings.TrimRight(cfg.URL, "/"), anonKey: cfg.AnonKey, hc: hc}
}

// ListDevices returns the user's devices, oldest first.
func (d *DataClient) ListDevices(ctx context.Context, token string) ([]Device, error) {
	var out []Device
	err := d.get(ctx, token, "devices", url.Values{
		"select": {"*"},
		"order":  {"created_at.asc"},
	}, &out)
	return out, err
}

// InsertDevice creates a device row.
func (d *DataClient) InsertDevice(ctx context.Context, token string, dev NewDevice) error {
	return d.insert(ctx, token, "devices", dev)
}

// DeleteDevice removes a device row by id.
func (d *DataClient) DeleteDevice(ctx context.Context, token, id string) error {
	return d.delete(ctx, token, "devices", url.Values{"id": {"eq." + id}})
}

// GetDeviceRole fetches a single device's role. Returns ErrNotFound when the
// id matches nothing the user can see.
func (d *DataClient) GetDeviceRole(ctx context.Context, token, id string) (string, error) {
	var rows []struct {
		Role string `json:"role"`
	}
	err := d.get(ctx, token, "devices", url.Values{
		"select": {"role"},
		"id":     {"eq." + id},
	}, &rows)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrNotFound
	}
	return rows[0].Role, nil
}

// ListPairs returns the user's pairs, oldest first.
func (d *DataClient) ListPairs(ctx context.Context, token string) ([]Pair, error) {
	var out []Pair
	err := d.get(ctx, token, "pairs", url.Values{
		"select": {"*"},
		"order":  {"created_at.asc"},
	}, &out)
	return out, err
}

// PairExists reports whether a sender/receiver pair already exists.
func (d *DataClient) PairExists(ctx context.Context, token, senderID, receiverID string) (bool, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	err := d.get(ctx, token, "pairs", url.Values{
		"select":      {"id"},
		"sender_id":   {"eq." + senderID},
		"receiver_id": {"eq." + receiverID},
		"limit":       {"1"},
	}, &rows)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// InsertPair creates a pair row.
func (d *DataClient) InsertPair(ctx context.Context, token, senderID, receiverID string) error {
	return d.insert(ctx, token, "pairs", map[string]string{
		"sender_id":   senderID,
		"receiver_id": receiverID,
	})
}

// DeletePair removes a pair row by id.
func (d *DataClient) DeletePair(ctx context.Context, token, id string) error {
	return d.delete(ctx, token, "pairs", url.Values{"id": {"eq." + id}})
}

// ListEvents returns the newest touch events, capped at limit.
func (d *DataClient) ListEvents(ctx context.Context, token string, limit int) ([]TouchEvent, error) {
	var out []TouchEvent
	err := d.get(ctx, token, "events", url.Values{
		"select": {"*"},
		"order":  {"triggered_at.desc"},
		"limit":  {strconv.Itoa(limit)},
	}, &out)
	return out, err
}

func (d *DataClient) restURL(table string, params url.Values) string {
	u := d.baseURL + "/rest/v1/" + table
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (d *DataClient) get(ctx context.Context, token, table string, params url.Values, out any) error {
	req, err := newJSONRequest(ctx, http.MethodGet, d.restURL(table, params), d.anonKey, token, nil)
	if err != nil {
		return err
	}
	return doJSON(d.hc, req, out)
}

func (d *DataClient) insert(ctx context.Context, token, table string, row any) error {
	req, err := newJSONRequest(ctx, http.MethodPost, d.restURL(table, nil), d.anonKey, token, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	return doJSON(d.hc, req, nil)
}

func (d *DataClient) delete(ctx context.Context, token, table string, params url.Values) error {
	req, err := newJSONRequest(ctx, http.MethodDelete, d.restURL(table, params), d.anonKey, token, nil)
	if err != nil {
		return err
	}
	return doJSON(d.hc, req, nil)
}
