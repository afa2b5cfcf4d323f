package donki

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/httputil"
	"github.com/matzehuels/orbit/pkg/integrations"
)

const basePath = "/DONKI"

// DefaultWindow is how far back Events and Notifications look when no start
// date is given.
const DefaultWindow = 30 * 24 * time.Hour

var (
	eventsEndpoint        = integrations.Endpoint{Name: "donki", Op: "events", TTL: 30 * time.Minute}
	notificationsEndpoint = integrations.Endpoint{Name: "donki", Op: "notifications", TTL: 30 * time.Minute}
)

// Kind is a DONKI event type.
type Kind string

// Event kinds.
const (
	CME                 Kind = "CME"
	CMEAnalysis         Kind = "CMEAnalysis"
	GST                 Kind = "GST"
	IPS                 Kind = "IPS"
	FLR                 Kind = "FLR"
	SEP                 Kind = "SEP"
	MPC                 Kind = "MPC"
	RBE                 Kind = "RBE"
	HSS                 Kind = "HSS"
	WSAEnlilSimulations Kind = "WSAEnlilSimulations"
)

// kindInfo names the fields that hold an event's ID and time, which differ
// between kinds.
type kindInfo struct {
	Description string
	IDField     string
	TimeField   string
}

var kinds = map[Kind]kindInfo{
	CME:                 {"Coronal mass ejection", "activityID", "startTime"},
	CMEAnalysis:         {"Coronal mass ejection analysis", "associatedCMEID", "time21_5"},
	GST:                 {"Geomagnetic storm", "gstID", "startTime"},
	IPS:                 {"Interplanetary shock", "activityID", "eventTime"},
	FLR:                 {"Solar flare", "flrID", "beginTime"},
	SEP:                 {"Solar energetic particle event", "sepID", "eventTime"},
	MPC:                 {"Magnetopause crossing", "mpcID", "eventTime"},
	RBE:                 {"Radiation belt enhancement", "rbeID", "eventTime"},
	HSS:                 {"High speed stream", "hssID", "eventTime"},
	WSAEnlilSimulations: {"WSA+Enlil solar wind simulation", "simulationID", "modelCompletionTime"},
}

// Kinds returns every event kind in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Description returns a human-readable name for the kind.
func (k Kind) Description() string {
	return kinds[k].Description
}

// ParseKind returns the kind named s, ignoring case.
func ParseKind(s string) (Kind, error) {
	for k := range kinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown event kind %q", s)
}

// Event is one space-weather event, normalized across kinds.
type Event struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Time        time.Time       `json:"time"`
	Link        string          `json:"link,omitempty"`
	Instruments []string        `json:"instruments,omitempty"`
	Raw         json.RawMessage `json:"raw"` // The event as served
}

// NotificationTypes are the accepted notification filters.
var NotificationTypes = []string{"all", "FLR", "SEP", "CME", "IPS", "MPC", "GST", "RBE", "report"}

// Notification is a message issued by the Space Weather Research Center.
type Notification struct {
	ID        string `json:"messageID"`
	Type      string `json:"messageType"`
	IssueTime string `json:"messageIssueTime"`
	URL       string `json:"messageURL"`
	Body      string `json:"messageBody"`
}

type notifications []Notification

func (ns notifications) Validate() error {
	for _, n := range ns {
		if n.ID == "" {
			return fmt.Errorf("notification issued at %q has no messageID", n.IssueTime)
		}
	}
	return nil
}

// Client fetches DONKI events and notifications.
type Client struct {
	*integrations.Client
	clock httputil.Clock
}

// NewClient creates a DONKI client over c. The clock picks the default
// date window; nil uses the system clock.
func NewClient(c *integrations.Client, clock httputil.Clock) *Client {
	if clock == nil {
		clock = httputil.SystemClock{}
	}
	return &Client{Client: c, clock: clock}
}

// Events returns the events of kind between start and end, inclusive.
// An empty start means [DefaultWindow] before end; an empty end means today.
func (c *Client) Events(ctx context.Context, kind Kind, start, end string) ([]Event, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	params, err := c.window(start, end)
	if err != nil {
		return nil, err
	}
	raw, err := integrations.Fetch[[]json.RawMessage](ctx, c.Client, eventsEndpoint, basePath+"/"+string(k), params)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(raw))
	for _, r := range raw {
		e, err := normalize(k, r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnexpectedPayload, err, "%s event", k)
		}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}

// Notifications returns the notifications of the given type between start
// and end. An empty type means "all".
func (c *Client) Notifications(ctx context.Context, start, end, typ string) ([]Notification, error) {
	params, err := c.window(start, end)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		typ = "all"
	}
	if !validNotificationType(typ) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown notification type %q (want one of %s)",
			typ, strings.Join(NotificationTypes, ", "))
	}
	params["type"] = typ
	return integrations.Fetch[notifications](ctx, c.Client, notificationsEndpoint, basePath+"/notifications", params)
}

// window validates and defaults a start/end pair.
func (c *Client) window(start, end string) (integrations.Params, error) {
	if end == "" {
		end = c.clock.Now().UTC().Format(errors.DateLayout)
	}
	e, err := errors.ParseDate(end)
	if err != nil {
		return nil, err
	}
	if start == "" {
		start = e.Add(-DefaultWindow).Format(errors.DateLayout)
	}
	if err := errors.ValidateDateRange(start, end, 0); err != nil {
		return nil, err
	}
	return integrations.Params{"startDate": start, "endDate": end}, nil
}

func validNotificationType(typ string) bool {
	for _, t := range NotificationTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// timeLayouts are the timestamp formats DONKI uses.
var timeLayouts = []string{
	"2006-01-02T15:04Z",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
}

// normalize extracts the common fields of a raw event.
func normalize(kind Kind, raw json.RawMessage) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Event{}, err
	}
	info := kinds[kind]

	e := Event{Kind: kind, Raw: raw}
	e.ID = stringField(fields, info.IDField)
	if e.ID == "" {
		return Event{}, fmt.Errorf("missing %s", info.IDField)
	}
	e.Link = stringField(fields, "link")
	e.Time = parseTime(stringField(fields, info.TimeField))

	if ins, ok := fields["instruments"]; ok {
		var list []struct {
			DisplayName string `json:"displayName"`
		}
		if json.Unmarshal(ins, &list) == nil {
			for _, i := range list {
				e.Instruments = append(e.Instruments, i.DisplayName)
			}
		}
	}
	return e, nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	if raw, ok := fields[name]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
