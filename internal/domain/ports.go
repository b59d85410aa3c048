package domain

import "context"

// CatalogGateway is the narrow interface to the remote catalog service.
// Every call is a single request/response round trip; implementations do
// not retry and do not cache.
type CatalogGateway interface {
	ListSegments(ctx context.Context) ([]Segment, error)
	CreateSegment(ctx context.Context, candidate Segment) (Segment, error)
	UpdateSegment(ctx context.Context, record Segment) (Segment, error)
	DeleteSegment(ctx context.Context, id int) error

	ListBrands(ctx context.Context) ([]Brand, error)
	CreateBrand(ctx context.Context, candidate Brand) (Brand, error)
	UpdateBrand(ctx context.Context, record Brand) (Brand, error)
	DeleteBrand(ctx context.Context, id int) error

	ListVehicles(ctx context.Context) ([]Vehicle, error)
	CreateVehicle(ctx context.Context, candidate Vehicle) (Vehicle, error)
	UpdateVehicle(ctx context.Context, record Vehicle) (Vehicle, error)
	DeleteVehicle(ctx context.Context, id int) error
}

// AccountGateway covers the unauthenticated auth endpoints plus the profile
// read. Login returns the bearer token issued by the server; persisting it
// is the caller's concern.
type AccountGateway interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	Register(ctx context.Context, creds Credentials) (Profile, error)
	FetchProfile(ctx context.Context) (Profile, error)
}

// TokenVault is the durable credential side-channel: a single token slot.
// It is the only persisted state in the whole client.
type TokenVault interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}
