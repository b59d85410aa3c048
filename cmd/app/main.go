package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"vehicleregistry/internal/domain"
	"vehicleregistry/internal/store"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "vehicleregistry",
		Usage: "Vehicle catalog client for the registry API",
		Commands: []*cli.Command{
			authCommand(),
			segmentsCommand(),
			brandsCommand(),
			vehiclesCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authentication commands",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Login and store the API token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					creds := domain.Credentials{Username: c.String("username"), Password: c.String("password")}
					if err := a.session.Login(ctx, creds); err != nil {
						fmt.Println(store.StatusLoginError)
						return err
					}
					fmt.Println(store.StatusLoginOK)
					return nil
				},
			},
			{
				Name:  "register",
				Usage: "Create an account, then log in with it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.BoolFlag{Name: "no-login", Usage: "register only, skip the login round trip"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					creds := domain.Credentials{Username: c.String("username"), Password: c.String("password")}
					if err := a.session.Register(ctx, creds); err != nil {
						fmt.Println(store.StatusRegisterError)
						return err
					}
					if c.Bool("no-login") {
						fmt.Printf("registered %s\n", creds.Username)
						return nil
					}
					if err := a.session.Login(ctx, creds); err != nil {
						fmt.Println(store.StatusLoginError)
						return err
					}
					fmt.Println(store.StatusLoginOK)
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "Show the authenticated profile",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					profile, err := a.session.FetchProfile(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(profile)
					}
					printProfile(profile)
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "Clear the stored API token",
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.session.Logout(); err != nil {
						return err
					}
					fmt.Println("logged out")
					return nil
				},
			},
		},
	}
}

func segmentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "segments",
		Usage: "Segment commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List segments",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.FetchSegments(ctx); err != nil {
						fmt.Println(store.StatusGetError)
						return err
					}
					if c.Bool("json") {
						return printJSON(a.catalog.Segments())
					}
					printSegments(a.catalog.Segments())
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a segment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					name := c.String("name")
					a.catalog.EditSegmentDraft(store.SegmentPatch{SegmentName: &name})
					created, err := a.catalog.SubmitSegment(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(created)
					}
					printSegments([]domain.Segment{created})
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Rename a segment",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.FetchSegments(ctx); err != nil {
						fmt.Println(store.StatusGetError)
						return err
					}
					record, ok := findSegment(a.catalog.Segments(), c.Int("id"))
					if !ok {
						return fmt.Errorf("segment %d not found", c.Int("id"))
					}
					a.catalog.BeginEditSegment(record)
					name := c.String("name")
					a.catalog.EditSegmentDraft(store.SegmentPatch{SegmentName: &name})
					updated, err := a.catalog.SubmitSegment(ctx)
					if err != nil {
						return err
					}
					fmt.Println(store.StatusUpdated(store.CollectionSegment))
					if c.Bool("json") {
						return printJSON(updated)
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a segment and every vehicle in it",
				Flags: []cli.Flag{&cli.IntFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.DeleteSegment(ctx, c.Int("id")); err != nil {
						return err
					}
					fmt.Println(store.StatusDeleted(store.CollectionSegment))
					return nil
				},
			},
		},
	}
}

func brandsCommand() *cli.Command {
	return &cli.Command{
		Name:  "brands",
		Usage: "Brand commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List brands",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.FetchBrands(ctx); err != nil {
						fmt.Println(store.StatusGetError)
						return err
					}
					if c.Bool("json") {
						return printJSON(a.catalog.Brands())
					}
					printBrands(a.catalog.Brands())
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a brand",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					name := c.String("name")
					a.catalog.EditBrandDraft(store.BrandPatch{BrandName: &name})
					created, err := a.catalog.SubmitBrand(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(created)
					}
					printBrands([]domain.Brand{created})
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Rename a brand",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.FetchBrands(ctx); err != nil {
						fmt.Println(store.StatusGetError)
						return err
					}
					record, ok := findBrand(a.catalog.Brands(), c.Int("id"))
					if !ok {
						return fmt.Errorf("brand %d not found", c.Int("id"))
					}
					a.catalog.BeginEditBrand(record)
					name := c.String("name")
					a.catalog.EditBrandDraft(store.BrandPatch{BrandName: &name})
					updated, err := a.catalog.SubmitBrand(ctx)
					if err != nil {
						return err
					}
					fmt.Println(store.StatusUpdated(store.CollectionBrand))
					if c.Bool("json") {
						return printJSON(updated)
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a brand and every vehicle of it",
				Flags: []cli.Flag{&cli.IntFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.DeleteBrand(ctx, c.Int("id")); err != nil {
						return err
					}
					fmt.Println(store.StatusDeleted(store.CollectionBrand))
					return nil
				},
			},
		},
	}
}

func vehiclesCommand() *cli.Command {
	return &cli.Command{
		Name:  "vehicles",
		Usage: "Vehicle commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List vehicles",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.FetchVehicles(ctx); err != nil {
						fmt.Println(store.StatusGetError)
						return err
					}
					if c.Bool("json") {
						return printJSON(a.catalog.Vehicles())
					}
					printVehicles(a.catalog.Vehicles())
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a vehicle",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.IntFlag{Name: "year"},
					&cli.FloatFlag{Name: "price"},
					&cli.IntFlag{Name: "segment", Required: true},
					&cli.IntFlag{Name: "brand", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					patch := store.VehiclePatch{}
					name := c.String("name")
					patch.VehicleName = &name
					if c.IsSet("year") {
						year := c.Int("year")
						patch.ReleaseYear = &year
					}
					if c.IsSet("price") {
						price := c.Float("price")
						patch.Price = &price
					}
					segment := c.Int("segment")
					patch.Segment = &segment
					brand := c.Int("brand")
					patch.Brand = &brand
					a.catalog.EditVehicleDraft(patch)

					if err := checkVehicleDraft(a.catalog.VehicleDraft()); err != nil {
						return err
					}
					created, err := a.catalog.SubmitVehicle(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(created)
					}
					printVehicles([]domain.Vehicle{created})
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update vehicle fields",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name"},
					&cli.IntFlag{Name: "year"},
					&cli.FloatFlag{Name: "price"},
					&cli.IntFlag{Name: "segment"},
					&cli.IntFlag{Name: "brand"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.FetchVehicles(ctx); err != nil {
						fmt.Println(store.StatusGetError)
						return err
					}
					record, ok := findVehicle(a.catalog.Vehicles(), c.Int("id"))
					if !ok {
						return fmt.Errorf("vehicle %d not found", c.Int("id"))
					}
					a.catalog.BeginEditVehicle(record)

					patch := store.VehiclePatch{}
					if c.IsSet("name") {
						name := c.String("name")
						patch.VehicleName = &name
					}
					if c.IsSet("year") {
						year := c.Int("year")
						patch.ReleaseYear = &year
					}
					if c.IsSet("price") {
						price := c.Float("price")
						patch.Price = &price
					}
					if c.IsSet("segment") {
						segment := c.Int("segment")
						patch.Segment = &segment
					}
					if c.IsSet("brand") {
						brand := c.Int("brand")
						patch.Brand = &brand
					}
					a.catalog.EditVehicleDraft(patch)

					if err := checkVehicleDraft(a.catalog.VehicleDraft()); err != nil {
						return err
					}
					updated, err := a.catalog.SubmitVehicle(ctx)
					if err != nil {
						return err
					}
					fmt.Println(store.StatusUpdated(store.CollectionVehicle))
					if c.Bool("json") {
						return printJSON(updated)
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a vehicle",
				Flags: []cli.Flag{&cli.IntFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					if err := a.catalog.DeleteVehicle(ctx, c.Int("id")); err != nil {
						return err
					}
					fmt.Println(store.StatusDeleted(store.CollectionVehicle))
					return nil
				},
			},
		},
	}
}

// checkVehicleDraft refuses a submit while any required field is missing;
// one missing field is enough to block it.
func checkVehicleDraft(draft domain.Vehicle) error {
	if draft.VehicleName == "" || draft.Segment == 0 || draft.Brand == 0 {
		return fmt.Errorf("vehicle needs a name, a segment and a brand before submit")
	}
	return nil
}

func findSegment(items []domain.Segment, id int) (domain.Segment, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Segment{}, false
}

func findBrand(items []domain.Brand, id int) (domain.Brand, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Brand{}, false
}

func findVehicle(items []domain.Vehicle, id int) (domain.Vehicle, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Vehicle{}, false
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
