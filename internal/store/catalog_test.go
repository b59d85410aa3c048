package store

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vehicleregistry/internal/domain"
	"vehicleregistry/internal/remote"
	"vehicleregistry/internal/remote/remotetest"
	"vehicleregistry/internal/vault"
)

// newCatalogFixture seeds the fake registry with two segments, two brands
// and two vehicles, one vehicle per segment/brand pair.
func newCatalogFixture(t *testing.T) (*Catalog, *remotetest.Server) {
	t.Helper()
	fake := remotetest.New()
	fake.SeedToken("tok", "taro")
	fake.SeedSegments(
		domain.Segment{ID: 1, SegmentName: "K-CAR"},
		domain.Segment{ID: 2, SegmentName: "EV"},
	)
	fake.SeedBrands(
		domain.Brand{ID: 3, BrandName: "Honda"},
		domain.Brand{ID: 4, BrandName: "Toyota"},
	)
	fake.SeedVehicles(
		domain.Vehicle{ID: 5, VehicleName: "S660", ReleaseYear: 2015, Price: 198, Segment: 1, Brand: 3, SegmentName: "K-CAR", BrandName: "Honda"},
		domain.Vehicle{ID: 6, VehicleName: "bZ4X", ReleaseYear: 2022, Price: 600, Segment: 2, Brand: 4, SegmentName: "EV", BrandName: "Toyota"},
	)

	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)

	v := vault.NewMemoryVault()
	require.NoError(t, v.Set("tok"))
	client := remote.NewClient(srv.URL, 5*time.Second, v, quietLogger())
	return NewCatalog(client, quietLogger()), fake
}

func fetchAll(t *testing.T, c *Catalog) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.FetchSegments(ctx))
	require.NoError(t, c.FetchBrands(ctx))
	require.NoError(t, c.FetchVehicles(ctx))
}

func segmentIDs(items []domain.Segment) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func vehicleIDs(items []domain.Vehicle) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestInitialStateIsPlaceholders(t *testing.T) {
	c, _ := newCatalogFixture(t)

	require.Equal(t, domain.PlaceholderSegments(), c.Segments())
	require.Equal(t, domain.PlaceholderBrands(), c.Brands())
	require.Equal(t, domain.PlaceholderVehicles(), c.Vehicles())
	require.Equal(t, 2020, c.VehicleDraft().ReleaseYear)
}

func TestFetchReplacesCollectionWholesale(t *testing.T) {
	c, _ := newCatalogFixture(t)

	require.NoError(t, c.FetchSegments(context.Background()))
	require.Equal(t, []int{1, 2}, segmentIDs(c.Segments()))

	// Refetching is idempotent, not additive.
	require.NoError(t, c.FetchSegments(context.Background()))
	require.Equal(t, []int{1, 2}, segmentIDs(c.Segments()))
}

func TestFetchFailureLeavesCollectionUntouched(t *testing.T) {
	c, fake := newCatalogFixture(t)

	fake.FailNext(500)
	err := c.FetchSegments(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, domain.PlaceholderSegments(), c.Segments())
	require.Equal(t, "Get error!", StatusGetError)
}

func TestCreateAppendsServerRecordAndClearsDraft(t *testing.T) {
	c, _ := newCatalogFixture(t)
	fetchAll(t, c)

	name := "Large SUV"
	c.EditSegmentDraft(SegmentPatch{SegmentName: &name})
	created, err := c.SubmitSegment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, created.ID)
	require.Equal(t, "Large SUV", created.SegmentName)

	require.Equal(t, []int{1, 2, 7}, segmentIDs(c.Segments()))
	require.Equal(t, domain.EmptySegmentDraft(), c.SegmentDraft())
}

func TestCreateFailureLeavesDraftIntact(t *testing.T) {
	c, fake := newCatalogFixture(t)
	fetchAll(t, c)

	name := "Large SUV"
	c.EditSegmentDraft(SegmentPatch{SegmentName: &name})

	fake.FailNext(400)
	_, err := c.SubmitSegment(context.Background())
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))

	// Draft survives a rejected create so the form can be resubmitted.
	require.Equal(t, "Large SUV", c.SegmentDraft().SegmentName)
	require.Equal(t, []int{1, 2}, segmentIDs(c.Segments()))
}

func TestUpdateReplacesMatchingEntry(t *testing.T) {
	c, _ := newCatalogFixture(t)
	fetchAll(t, c)

	record, _ := findSegmentByID(c.Segments(), 1)
	c.BeginEditSegment(record)
	name := "Kei car"
	c.EditSegmentDraft(SegmentPatch{SegmentName: &name})

	updated, err := c.SubmitSegment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, updated.ID)
	require.Equal(t, "Kei car", updated.SegmentName)

	segments := c.Segments()
	require.Equal(t, []int{1, 2}, segmentIDs(segments))
	require.Equal(t, "Kei car", segments[0].SegmentName)
	require.Equal(t, "EV", segments[1].SegmentName)
	require.Equal(t, domain.EmptySegmentDraft(), c.SegmentDraft())
	require.Equal(t, "Updated in segment!", StatusUpdated(CollectionSegment))
}

func TestUpdateFailureStillClearsDraft(t *testing.T) {
	c, fake := newCatalogFixture(t)
	fetchAll(t, c)

	record, _ := findSegmentByID(c.Segments(), 1)
	c.BeginEditSegment(record)

	fake.FailNext(500)
	_, err := c.SubmitSegment(context.Background())
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))

	// A rejected update still leaves edit mode; collection stays as fetched.
	require.Equal(t, domain.EmptySegmentDraft(), c.SegmentDraft())
	segments := c.Segments()
	require.Equal(t, "K-CAR", segments[0].SegmentName)
}

func TestDeleteSegmentCascadesToVehicles(t *testing.T) {
	c, _ := newCatalogFixture(t)
	fetchAll(t, c)

	require.NoError(t, c.DeleteSegment(context.Background(), 1))

	require.Equal(t, []int{2}, segmentIDs(c.Segments()))
	// The S660 referenced segment 1 and goes with it; bZ4X stays.
	require.Equal(t, []int{6}, vehicleIDs(c.Vehicles()))
	// Brands are not part of the cascade.
	require.Len(t, c.Brands(), 2)
	require.Equal(t, "Deleted in segment!", StatusDeleted(CollectionSegment))
}

func TestDeleteBrandCascadesToVehicles(t *testing.T) {
	c, _ := newCatalogFixture(t)
	fetchAll(t, c)

	require.NoError(t, c.DeleteBrand(context.Background(), 4))

	brands := c.Brands()
	require.Len(t, brands, 1)
	require.Equal(t, "Honda", brands[0].BrandName)
	require.Equal(t, []int{5}, vehicleIDs(c.Vehicles()))
	require.Len(t, c.Segments(), 2)
	require.Equal(t, "Deleted in brand!", StatusDeleted(CollectionBrand))
}

func TestDeleteVehicleDoesNotCascade(t *testing.T) {
	c, _ := newCatalogFixture(t)
	fetchAll(t, c)

	require.NoError(t, c.DeleteVehicle(context.Background(), 5))

	require.Equal(t, []int{6}, vehicleIDs(c.Vehicles()))
	require.Len(t, c.Segments(), 2)
	require.Len(t, c.Brands(), 2)
	require.Equal(t, "Deleted in vehicle!", StatusDeleted(CollectionVehicle))
}

func TestDeleteFailureLeavesEverything(t *testing.T) {
	c, fake := newCatalogFixture(t)
	fetchAll(t, c)

	fake.FailNext(500)
	err := c.DeleteSegment(context.Background(), 1)
	require.Error(t, err)

	require.Equal(t, []int{1, 2}, segmentIDs(c.Segments()))
	require.Equal(t, []int{5, 6}, vehicleIDs(c.Vehicles()))
}

func TestBeginEditReplacesDraftWholesale(t *testing.T) {
	c, _ := newCatalogFixture(t)

	year := 1999
	c.EditVehicleDraft(VehiclePatch{ReleaseYear: &year})

	record := domain.Vehicle{ID: 5, VehicleName: "S660", ReleaseYear: 2015, Price: 198, Segment: 1, Brand: 3}
	c.BeginEditVehicle(record)

	// No merge with the previous draft; the record wins entirely.
	require.Equal(t, record, c.VehicleDraft())
}

func TestEditDraftMergesOnlySetFields(t *testing.T) {
	c, _ := newCatalogFixture(t)

	c.BeginEditVehicle(domain.Vehicle{ID: 5, VehicleName: "S660", ReleaseYear: 2015, Price: 198, Segment: 1, Brand: 3})

	price := 150.0
	c.EditVehicleDraft(VehiclePatch{Price: &price})

	draft := c.VehicleDraft()
	require.Equal(t, 150.0, draft.Price)
	require.Equal(t, "S660", draft.VehicleName)
	require.Equal(t, 2015, draft.ReleaseYear)
}

func TestSubmitDispatchesOnDraftID(t *testing.T) {
	c, _ := newCatalogFixture(t)
	fetchAll(t, c)

	// Zero id draft goes down the create path.
	name := "N-BOX"
	segment, brand := 1, 3
	c.EditVehicleDraft(VehiclePatch{VehicleName: &name, Segment: &segment, Brand: &brand})
	created, err := c.SubmitVehicle(context.Background())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "K-CAR", created.SegmentName)
	require.Equal(t, "Honda", created.BrandName)
	require.Len(t, c.Vehicles(), 3)

	// Non-zero id draft goes down the update path; no new record appears.
	record, _ := findVehicleByID(c.Vehicles(), 5)
	c.BeginEditVehicle(record)
	newName := "S660 Modulo X"
	c.EditVehicleDraft(VehiclePatch{VehicleName: &newName})
	updated, err := c.SubmitVehicle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, updated.ID)
	require.Equal(t, "S660 Modulo X", updated.VehicleName)
	require.Len(t, c.Vehicles(), 3)
}

func TestVehicleUpdateRefreshesJoinNames(t *testing.T) {
	c, _ := newCatalogFixture(t)
	fetchAll(t, c)

	record, _ := findVehicleByID(c.Vehicles(), 5)
	c.BeginEditVehicle(record)
	segment, brand := 2, 4
	c.EditVehicleDraft(VehiclePatch{Segment: &segment, Brand: &brand})

	updated, err := c.SubmitVehicle(context.Background())
	require.NoError(t, err)
	require.Equal(t, "EV", updated.SegmentName)
	require.Equal(t, "Toyota", updated.BrandName)

	stored, ok := findVehicleByID(c.Vehicles(), 5)
	require.True(t, ok)
	require.Equal(t, "EV", stored.SegmentName)
	require.Equal(t, "Updated in vehicle!", StatusUpdated(CollectionVehicle))
}

func findSegmentByID(items []domain.Segment, id int) (domain.Segment, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Segment{}, false
}

func findVehicleByID(items []domain.Vehicle, id int) (domain.Vehicle, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Vehicle{}, false
}
