package space

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations/apod"
	"github.com/matzehuels/orbit/pkg/integrations/donki"
	"github.com/matzehuels/orbit/pkg/integrations/neo"
)

// overviewWorkers bounds the concurrent fetches of an overview.
const overviewWorkers = 4

// Overview is a one-call summary of today: the picture of the day, the
// near-Earth objects passing close, and recent solar flares and CMEs.
//
// Sections fail independently. A failed section is left empty and its
// error recorded in Errors under the section name.
type Overview struct {
	Date      string            `json:"date"`
	Picture   *apod.Picture     `json:"picture,omitempty"`
	NEOs      []neo.Object      `json:"neos,omitempty"`
	Hazardous int               `json:"hazardous"`
	Flares    []donki.Event     `json:"flares,omitempty"`
	CMEs      []donki.Event     `json:"cmes,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Overview fetches every section concurrently. It only returns an error
// when ctx is cancelled; section failures are reported in the result.
func (c *Client) Overview(ctx context.Context) (*Overview, error) {
	now := c.clock.Now().UTC()
	today := now.Format(errors.DateLayout)
	weekAgo := now.AddDate(0, 0, -7).Format(errors.DateLayout)

	ov := &Overview{Date: today}
	var mu sync.Mutex
	record := func(section string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if ov.Errors == nil {
			ov.Errors = make(map[string]string)
		}
		ov.Errors[section] = errors.UserMessage(err)
		c.logger.Warn("overview section failed", "section", section, "err", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewWorkers)

	g.Go(func() error {
		pic, err := c.APOD.Today(gctx)
		if err != nil {
			record("apod", err)
			return nil
		}
		mu.Lock()
		ov.Picture = pic
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		objs, err := c.NEO.Feed(gctx, today, today)
		if err != nil {
			record("neo", err)
			return nil
		}
		mu.Lock()
		ov.NEOs = objs
		ov.Hazardous = len(neo.Hazardous(objs))
		mu.Unlock()
		return nil
	})
	for _, kind := range []donki.Kind{donki.FLR, donki.CME} {
		g.Go(func() error {
			events, err := c.DONKI.Events(gctx, kind, weekAgo, today)
			if err != nil {
				record("donki."+string(kind), err)
				return nil
			}
			mu.Lock()
			if kind == donki.FLR {
				ov.Flares = events
			} else {
				ov.CMEs = events
			}
			mu.Unlock()
			return nil
		})
	}

	start := time.Now()
	_ = g.Wait()
	c.logger.Debug("overview fetched", "duration", time.Since(start), "errors", len(ov.Errors))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ov, nil
}
