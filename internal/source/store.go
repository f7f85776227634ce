// Package source builds the event store for one render: it ingests raw
// records from CSV and ICS feeds, deduplicates them and assigns each owner a
// stable display color.
package source

import (
	"context"
	"sort"
	"time"

	appLog "vacationcal/internal/log"
	"vacationcal/internal/model"
)

// palette is the fixed ordered set of band colors. Owners beyond its length
// wrap around with modulo arithmetic.
var palette = []string{
	"#ffb3ba", // light pink
	"#bae1ff", // light blue
	"#baffc9", // light green
	"#ffffba", // light yellow
	"#ffdfba", // light orange
	"#e0bbe4", // light purple
	"#d4d4aa", // light olive
	"#ffc9c9", // light coral
	"#c9e4ff", // light sky blue
	"#d4ffd4", // light mint
	"#ffffe0", // light cream
	"#ffe4e1", // light rose
	"#f0f8ff", // alice blue
	"#f0fff0", // honeydew
	"#ffefd5", // papaya whip
	"#e6e6fa", // lavender
	"#f5deb3", // wheat
	"#ffe4b5", // moccasin
	"#dda0dd", // plum
	"#98fb98", // pale green
}

// Dedup collapses records sharing the identity key (owner, start, end).
// The record appearing last in input order wins, so a correction appended
// after an original entry replaces it. Output order is the order in which
// each key was first seen, keeping the packing order deterministic.
func Dedup(raw []model.Event) []model.Event {
	latest := make(map[model.EventKey]model.Event, len(raw))
	order := make([]model.EventKey, 0, len(raw))

	for _, ev := range raw {
		key := ev.Key()
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = ev
	}

	out := make([]model.Event, 0, len(order))
	for _, key := range order {
		out = append(out, latest[key])
	}
	return out
}

// AssignColors maps every distinct owner in events to a palette color.
// Owners are sorted lexicographically first, so the mapping depends only on
// the owner set, never on input record order.
func AssignColors(events []model.Event) map[string]string {
	seen := make(map[string]struct{})
	for _, ev := range events {
		seen[ev.Owner] = struct{}{}
	}

	owners := make([]string, 0, len(seen))
	for owner := range seen {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	colors := make(map[string]string, len(owners))
	for i, owner := range owners {
		colors[owner] = palette[i%len(palette)]
	}
	return colors
}

// Options selects the record sources for one load.
type Options struct {
	// CSVPath is the vacation CSV file. Empty or missing is non-fatal.
	CSVPath string

	// Feeds are optional ICS subscriptions merged into the store.
	Feeds []Feed

	// CacheDir backs the HTTP cache for remote feeds.
	CacheDir string

	// Location is the timezone ICS instants are collapsed to calendar days
	// in. Nil means time.Local.
	Location *time.Location

	// HorizonStart / HorizonEnd bound recurrence expansion for ICS feeds.
	HorizonStart model.Date
	HorizonEnd   model.Date
}

// Load ingests all configured sources and returns the deduplicated events
// together with the owner color mapping. Individual source failures are
// logged and skipped; the load itself always succeeds, possibly with zero
// events.
func Load(ctx context.Context, opts Options) ([]model.Event, map[string]string) {
	raw := make([]model.Event, 0)

	if opts.CSVPath != "" {
		csvEvents, err := LoadCSV(opts.CSVPath)
		if err != nil {
			appLog.Error("csv source failed, skipping", err, "path", opts.CSVPath)
		} else {
			raw = append(raw, csvEvents...)
		}
	}

	if len(opts.Feeds) > 0 {
		fetcher := NewFetcher(opts.CacheDir)
		for _, feed := range opts.Feeds {
			body, err := fetcher.Fetch(ctx, feed.URL)
			if err != nil {
				appLog.Error("ics feed failed, skipping", err, "name", feed.Name)
				continue
			}
			raw = append(raw, ParseFeed(feed, body, opts.HorizonStart, opts.HorizonEnd, opts.Location)...)
		}
	}

	events := Dedup(raw)
	colors := AssignColors(events)

	appLog.Info("event store built",
		"raw_count", len(raw),
		"event_count", len(events),
		"owner_count", len(colors),
	)
	return events, colors
}
