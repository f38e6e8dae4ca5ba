package halo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/statsgate/internal/domain"
	"github.com/osse101/statsgate/internal/logger"
	"github.com/osse101/statsgate/internal/metrics"
	"github.com/osse101/statsgate/internal/upstream"
)

// MetadataKind names a Halo Wars 2 metadata collection.
type MetadataKind string

const (
	KindLeaderPowers MetadataKind = "leader-powers"
	KindGameObjects  MetadataKind = "game-objects"
	KindTechs        MetadataKind = "techs"
)

// AllKinds lists every supported metadata collection.
var AllKinds = []MetadataKind{KindLeaderPowers, KindGameObjects, KindTechs}

// ParseMetadataKind validates a kind supplied by a caller.
func ParseMetadataKind(s string) (MetadataKind, bool) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// NameMap maps an upstream object id to its display name. Maps returned by
// MetadataClient are shared and must not be modified.
type NameMap map[string]string

// MetadataClient resolves id to name maps for each metadata kind. A map is
// fetched once per process; concurrent callers share one in-flight fetch, and
// a failed fetch leaves nothing behind so the next call retries.
type MetadataClient struct {
	fetcher   upstream.Fetcher
	endpoints Endpoints
	group     singleflight.Group
	cache     *expirable.LRU[MetadataKind, NameMap]
}

// NewMetadataClient creates a MetadataClient. Entries never expire.
func NewMetadataClient(fetcher upstream.Fetcher, endpoints Endpoints) *MetadataClient {
	return &MetadataClient{
		fetcher:   fetcher,
		endpoints: endpoints,
		cache:     expirable.NewLRU[MetadataKind, NameMap](len(AllKinds), nil, 0),
	}
}

// Names returns the name map for kind and whether it was already memoized.
func (c *MetadataClient) Names(ctx context.Context, kind MetadataKind) (NameMap, bool, error) {
	if names, ok := c.cache.Get(kind); ok {
		metrics.MetadataLookups.WithLabelValues(string(kind), metrics.ResultHit).Inc()
		return names, true, nil
	}

	// The shared fetch must not die with whichever caller happened to start it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(string(kind), func() (any, error) {
		if names, ok := c.cache.Get(kind); ok {
			return names, nil
		}
		names, err := c.fetchAll(fetchCtx, kind)
		if err != nil {
			return nil, err
		}
		c.cache.Add(kind, names)
		return names, nil
	})
	if err != nil {
		metrics.MetadataLookups.WithLabelValues(string(kind), metrics.ResultError).Inc()
		logger.FromContext(ctx).Warn(LogMsgMetadataFetchFailed, "kind", kind, "error", err)
		return nil, false, err
	}
	metrics.MetadataLookups.WithLabelValues(string(kind), metrics.ResultMiss).Inc()
	return v.(NameMap), false, nil
}

type metadataPage struct {
	ContentItems []contentItem `json:"ContentItems"`
	Paging       struct {
		StartAt    int `json:"StartAt"`
		Count      int `json:"Count"`
		TotalCount int `json:"TotalCount"`
	} `json:"Paging"`
}

type contentItem struct {
	ID   string                     `json:"Id"`
	View map[string]json.RawMessage `json:"View"`
}

func (c *MetadataClient) fetchAll(ctx context.Context, kind MetadataKind) (NameMap, error) {
	names := NameMap{}
	startAt := 0
	for {
		body, err := c.fetcher.Get(ctx, c.endpoints.Metadata(kind, startAt), nil)
		if err != nil {
			return nil, err
		}

		var page metadataPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeMetadata,
				domain.NewAPIError(domain.ErrorTypeUnknown, domain.ErrMsgInternal))
		}

		for _, item := range page.ContentItems {
			if id, name := item.resolve(); id != "" && name != "" {
				names[id] = name
			}
		}

		startAt += len(page.ContentItems)
		if len(page.ContentItems) == 0 || startAt >= page.Paging.TotalCount {
			return names, nil
		}
	}
}

// resolve reads the display name from View.Title and the id from the typed
// object nested in View (for example View.HW2LeaderPower.ObjectTypeId),
// falling back to the content item id.
func (i contentItem) resolve() (id, name string) {
	if raw, ok := i.View["Title"]; ok {
		_ = json.Unmarshal(raw, &name)
	}

	keys := make([]string, 0, len(i.View))
	for k := range i.View {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var nested struct {
			ObjectTypeID string `json:"ObjectTypeId"`
		}
		if err := json.Unmarshal(i.View[k], &nested); err == nil && nested.ObjectTypeID != "" {
			return nested.ObjectTypeID, name
		}
	}
	return i.ID, name
}
