package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"vehicleregistry/internal/domain"
)

// Catalog mirrors the server-side collections. Each collection is a set
// keyed by id; records are replaced wholesale, never mutated in place.
// Effects run without the lock held; their reducers take the lock only to
// fold the outcome in, so overlapping effects resolve last-write-wins.
type Catalog struct {
	mu      sync.Mutex
	gateway domain.CatalogGateway
	log     *logrus.Logger

	segments []domain.Segment
	brands   []domain.Brand
	vehicles []domain.Vehicle

	segmentDraft domain.Segment
	brandDraft   domain.Brand
	vehicleDraft domain.Vehicle
}

func NewCatalog(gw domain.CatalogGateway, log *logrus.Logger) *Catalog {
	return &Catalog{
		gateway:      gw,
		log:          log,
		segments:     domain.PlaceholderSegments(),
		brands:       domain.PlaceholderBrands(),
		vehicles:     domain.PlaceholderVehicles(),
		segmentDraft: domain.EmptySegmentDraft(),
		brandDraft:   domain.EmptyBrandDraft(),
		vehicleDraft: domain.EmptyVehicleDraft(),
	}
}

// SegmentPatch, BrandPatch and VehiclePatch carry partial draft edits;
// nil fields are left alone, set fields win.
type SegmentPatch struct {
	SegmentName *string
}

type BrandPatch struct {
	BrandName *string
}

type VehiclePatch struct {
	VehicleName *string
	ReleaseYear *int
	Price       *float64
	Segment     *int
	Brand       *int
}

// --- segments ---

// FetchSegments replaces the whole segment collection with the server's
// list. On failure the collection is left unchanged.
func (c *Catalog) FetchSegments(ctx context.Context) error {
	items, err := c.gateway.ListSegments(ctx)
	if err != nil {
		return &FetchError{Err: err}
	}
	c.mu.Lock()
	c.segments = items
	c.mu.Unlock()
	c.log.WithField("count", len(items)).Debug("segments fetched")
	return nil
}

// CreateSegment sends the candidate without an id and appends the
// server-assigned record. The draft resets only when the server accepts.
func (c *Catalog) CreateSegment(ctx context.Context, candidate domain.Segment) (domain.Segment, error) {
	created, err := c.gateway.CreateSegment(ctx, candidate)
	if err != nil {
		return domain.Segment{}, &WriteError{Err: err}
	}
	c.mu.Lock()
	c.segments = append(c.segments, created)
	c.segmentDraft = domain.EmptySegmentDraft()
	c.mu.Unlock()
	return created, nil
}

// UpdateSegment sends the full record and replaces the matching entry.
// The draft resets whether or not the server accepted; this mirrors the
// edit form, which always leaves update mode after a submit.
func (c *Catalog) UpdateSegment(ctx context.Context, record domain.Segment) (domain.Segment, error) {
	updated, err := c.gateway.UpdateSegment(ctx, record)

	c.mu.Lock()
	c.segmentDraft = domain.EmptySegmentDraft()
	if err == nil {
		for i, seg := range c.segments {
			if seg.ID == updated.ID {
				c.segments[i] = updated
			}
		}
	}
	c.mu.Unlock()

	if err != nil {
		return domain.Segment{}, &WriteError{Err: err}
	}
	return updated, nil
}

// DeleteSegment removes the segment and, in the same reducer step, every
// vehicle that references it. The deletion endpoint returns only the id,
// so the cascade is reconciled locally rather than by a re-fetch.
func (c *Catalog) DeleteSegment(ctx context.Context, id int) error {
	if err := c.gateway.DeleteSegment(ctx, id); err != nil {
		return &WriteError{Err: err}
	}
	c.mu.Lock()
	segments := make([]domain.Segment, 0, len(c.segments))
	for _, seg := range c.segments {
		if seg.ID != id {
			segments = append(segments, seg)
		}
	}
	c.segments = segments
	vehicles := make([]domain.Vehicle, 0, len(c.vehicles))
	for _, veh := range c.vehicles {
		if veh.Segment != id {
			vehicles = append(vehicles, veh)
		}
	}
	c.vehicles = vehicles
	c.mu.Unlock()
	c.log.WithField("segment_id", id).Debug("segment deleted with cascade")
	return nil
}

// BeginEditSegment replaces the draft wholesale; no merge with the
// previous draft.
func (c *Catalog) BeginEditSegment(record domain.Segment) {
	c.mu.Lock()
	c.segmentDraft = record
	c.mu.Unlock()
}

// EditSegmentDraft merges the patch into the draft, last write wins.
func (c *Catalog) EditSegmentDraft(p SegmentPatch) {
	c.mu.Lock()
	if p.SegmentName != nil {
		c.segmentDraft.SegmentName = *p.SegmentName
	}
	c.mu.Unlock()
}

// SubmitSegment dispatches create or update solely on the draft id at the
// moment the intent fires.
func (c *Catalog) SubmitSegment(ctx context.Context) (domain.Segment, error) {
	c.mu.Lock()
	draft := c.segmentDraft
	c.mu.Unlock()
	if draft.ID == 0 {
		return c.CreateSegment(ctx, domain.Segment{SegmentName: draft.SegmentName})
	}
	return c.UpdateSegment(ctx, draft)
}

func (c *Catalog) Segments() []domain.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Segment(nil), c.segments...)
}

func (c *Catalog) SegmentDraft() domain.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.segmentDraft
}

// --- brands ---

func (c *Catalog) FetchBrands(ctx context.Context) error {
	items, err := c.gateway.ListBrands(ctx)
	if err != nil {
		return &FetchError{Err: err}
	}
	c.mu.Lock()
	c.brands = items
	c.mu.Unlock()
	c.log.WithField("count", len(items)).Debug("brands fetched")
	return nil
}

func (c *Catalog) CreateBrand(ctx context.Context, candidate domain.Brand) (domain.Brand, error) {
	created, err := c.gateway.CreateBrand(ctx, candidate)
	if err != nil {
		return domain.Brand{}, &WriteError{Err: err}
	}
	c.mu.Lock()
	c.brands = append(c.brands, created)
	c.brandDraft = domain.EmptyBrandDraft()
	c.mu.Unlock()
	return created, nil
}

func (c *Catalog) UpdateBrand(ctx context.Context, record domain.Brand) (domain.Brand, error) {
	updated, err := c.gateway.UpdateBrand(ctx, record)

	c.mu.Lock()
	c.brandDraft = domain.EmptyBrandDraft()
	if err == nil {
		for i, b := range c.brands {
			if b.ID == updated.ID {
				c.brands[i] = updated
			}
		}
	}
	c.mu.Unlock()

	if err != nil {
		return domain.Brand{}, &WriteError{Err: err}
	}
	return updated, nil
}

func (c *Catalog) DeleteBrand(ctx context.Context, id int) error {
	if err := c.gateway.DeleteBrand(ctx, id); err != nil {
		return &WriteError{Err: err}
	}
	c.mu.Lock()
	brands := make([]domain.Brand, 0, len(c.brands))
	for _, b := range c.brands {
		if b.ID != id {
			brands = append(brands, b)
		}
	}
	c.brands = brands
	vehicles := make([]domain.Vehicle, 0, len(c.vehicles))
	for _, veh := range c.vehicles {
		if veh.Brand != id {
			vehicles = append(vehicles, veh)
		}
	}
	c.vehicles = vehicles
	c.mu.Unlock()
	c.log.WithField("brand_id", id).Debug("brand deleted with cascade")
	return nil
}

func (c *Catalog) BeginEditBrand(record domain.Brand) {
	c.mu.Lock()
	c.brandDraft = record
	c.mu.Unlock()
}

func (c *Catalog) EditBrandDraft(p BrandPatch) {
	c.mu.Lock()
	if p.BrandName != nil {
		c.brandDraft.BrandName = *p.BrandName
	}
	c.mu.Unlock()
}

func (c *Catalog) SubmitBrand(ctx context.Context) (domain.Brand, error) {
	c.mu.Lock()
	draft := c.brandDraft
	c.mu.Unlock()
	if draft.ID == 0 {
		return c.CreateBrand(ctx, domain.Brand{BrandName: draft.BrandName})
	}
	return c.UpdateBrand(ctx, draft)
}

func (c *Catalog) Brands() []domain.Brand {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Brand(nil), c.brands...)
}

func (c *Catalog) BrandDraft() domain.Brand {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brandDraft
}

// --- vehicles ---

func (c *Catalog) FetchVehicles(ctx context.Context) error {
	items, err := c.gateway.ListVehicles(ctx)
	if err != nil {
		return &FetchError{Err: err}
	}
	c.mu.Lock()
	c.vehicles = items
	c.mu.Unlock()
	c.log.WithField("count", len(items)).Debug("vehicles fetched")
	return nil
}

func (c *Catalog) CreateVehicle(ctx context.Context, candidate domain.Vehicle) (domain.Vehicle, error) {
	created, err := c.gateway.CreateVehicle(ctx, candidate)
	if err != nil {
		return domain.Vehicle{}, &WriteError{Err: err}
	}
	c.mu.Lock()
	c.vehicles = append(c.vehicles, created)
	c.vehicleDraft = domain.EmptyVehicleDraft()
	c.mu.Unlock()
	return created, nil
}

func (c *Catalog) UpdateVehicle(ctx context.Context, record domain.Vehicle) (domain.Vehicle, error) {
	updated, err := c.gateway.UpdateVehicle(ctx, record)

	c.mu.Lock()
	c.vehicleDraft = domain.EmptyVehicleDraft()
	if err == nil {
		for i, veh := range c.vehicles {
			if veh.ID == updated.ID {
				c.vehicles[i] = updated
			}
		}
	}
	c.mu.Unlock()

	if err != nil {
		return domain.Vehicle{}, &WriteError{Err: err}
	}
	return updated, nil
}

// DeleteVehicle never touches segments or brands.
func (c *Catalog) DeleteVehicle(ctx context.Context, id int) error {
	if err := c.gateway.DeleteVehicle(ctx, id); err != nil {
		return &WriteError{Err: err}
	}
	c.mu.Lock()
	vehicles := make([]domain.Vehicle, 0, len(c.vehicles))
	for _, veh := range c.vehicles {
		if veh.ID != id {
			vehicles = append(vehicles, veh)
		}
	}
	c.vehicles = vehicles
	c.mu.Unlock()
	return nil
}

func (c *Catalog) BeginEditVehicle(record domain.Vehicle) {
	c.mu.Lock()
	c.vehicleDraft = record
	c.mu.Unlock()
}

func (c *Catalog) EditVehicleDraft(p VehiclePatch) {
	c.mu.Lock()
	if p.VehicleName != nil {
		c.vehicleDraft.VehicleName = *p.VehicleName
	}
	if p.ReleaseYear != nil {
		c.vehicleDraft.ReleaseYear = *p.ReleaseYear
	}
	if p.Price != nil {
		c.vehicleDraft.Price = *p.Price
	}
	if p.Segment != nil {
		c.vehicleDraft.Segment = *p.Segment
	}
	if p.Brand != nil {
		c.vehicleDraft.Brand = *p.Brand
	}
	c.mu.Unlock()
}

func (c *Catalog) SubmitVehicle(ctx context.Context) (domain.Vehicle, error) {
	c.mu.Lock()
	draft := c.vehicleDraft
	c.mu.Unlock()
	if draft.ID == 0 {
		return c.CreateVehicle(ctx, draft)
	}
	return c.UpdateVehicle(ctx, draft)
}

func (c *Catalog) Vehicles() []domain.Vehicle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Vehicle(nil), c.vehicles...)
}

func (c *Catalog) VehicleDraft() domain.Vehicle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vehicleDraft
}
