package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/tindaph/tinda-backend/internal/auth"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	seedForce    bool
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users and listings",
	Long: `Insert demo sellers, a buyer and a handful of listings across Luzon,
Visayas and Mindanao. Nothing is inserted when listings already exist unless
--force is given. Existing demo users are reused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		res, err := seedDemo(cmd.Context(), gdb, seedPassword, seedForce)
		if err != nil {
			return err
		}
		if res.Skipped {
			Warning("listings already exist; skipping seed (use --force to add demo listings anyway)")
			return nil
		}
		Success("seeded %d users and %d listings", res.Users, res.Listings)
		Muted("demo accounts sign in with password %q", seedPassword)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even when listings exist")
	seedCmd.Flags().StringVar(&seedPassword, "password", "tindaph123", "password for the demo accounts")
}

type demoUser struct {
	Email    string
	Name     string
	Role     model.Role
	Location model.Location
}

type demoListing struct {
	SellerEmail string
	Title       string
	Description string
	Price       string
	Category    string
	Condition   string
	Image       string
	Location    model.Location
	Status      model.ListingStatus
	Age         time.Duration
}

var (
	quezonCity = model.Location{Region: "NCR", Province: "Metro Manila", City: "Quezon City"}
	makati     = model.Location{Region: "NCR", Province: "Metro Manila", City: "Makati"}
	taguig     = model.Location{Region: "NCR", Province: "Metro Manila", City: "Taguig"}
	cebuCity   = model.Location{Region: "Region VII (Central Visayas)", Province: "Cebu", City: "Cebu City"}
	mandaue    = model.Location{Region: "Region VII (Central Visayas)", Province: "Cebu", City: "Mandaue"}
	davaoCity  = model.Location{Region: "Region XI (Davao Region)", Province: "Davao del Sur", City: "Davao City"}
)

var demoUsers = []demoUser{
	{Email: "juan@tindaph.com", Name: "Juan Dela Cruz", Role: model.RoleSeller, Location: quezonCity},
	{Email: "maria@tindaph.com", Name: "Maria Clara", Role: model.RoleSeller, Location: cebuCity},
	{Email: "jose@tindaph.com", Name: "Jose Rizal", Role: model.RoleUser, Location: davaoCity},
}

var demoListings = []demoListing{
	{"juan@tindaph.com", "iPhone 13 Pro Max - Blue", "Used for 1 year, 90% battery health. Meetup Trinoma.",
		"35000", "Electronics", "Used", "https://picsum.photos/400/400", quezonCity, model.StatusActive, 2 * time.Hour},
	{"maria@tindaph.com", "Vintage Denim Jacket", "Rare find. Good condition.",
		"800", "Fashion", "Like New", "https://picsum.photos/400/401", cebuCity, model.StatusActive, 5 * time.Hour},
	{"maria@tindaph.com", "Pending Approval Item", "Waiting for admin...",
		"1200", "Hobbies", "New", "https://picsum.photos/400/402", cebuCity, model.StatusPending, time.Hour},
	{"juan@tindaph.com", "Honda Click 125i 2021", "Complete papers, 12k km. Casa maintained.",
		"68000", "Vehicles", "Used", "https://picsum.photos/400/403", makati, model.StatusActive, 26 * time.Hour},
	{"maria@tindaph.com", "Rattan Sala Set", "3-seater, 2 chairs and center table. Pickup only.",
		"15000", "Home & Living", "Used", "https://picsum.photos/400/404", mandaue, model.StatusActive, 50 * time.Hour},
	{"juan@tindaph.com", "Aircon Cleaning Service", "Window and split type. Metro Manila south area.",
		"650", "Services", "New", "https://picsum.photos/400/405", taguig, model.StatusActive, 72 * time.Hour},
}

type seedResult struct {
	Users    int
	Listings int
	Skipped  bool
}

func seedDemo(ctx context.Context, gdb *gorm.DB, password string, force bool) (seedResult, error) {
	var res seedResult
	users := repository.NewUserRepository(gdb)
	listings := repository.NewListingRepository(gdb)

	existing, err := listings.List(ctx, repository.ListingQuery{Limit: 1})
	if err != nil {
		return res, fmt.Errorf("count listings: %w", err)
	}
	if len(existing) > 0 && !force {
		res.Skipped = true
		return res, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return res, err
	}
	ids := make(map[string]string, len(demoUsers))
	for _, du := range demoUsers {
		u, err := users.FindByEmail(ctx, du.Email)
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = &model.User{
				Email:        du.Email,
				Name:         du.Name,
				Role:         du.Role,
				Location:     du.Location,
				IsVerified:   true,
				PasswordHash: hash,
			}
			if err := users.Create(ctx, u); err != nil {
				return res, fmt.Errorf("create user %s: %w", du.Email, err)
			}
			res.Users++
		default:
			return res, fmt.Errorf("find user %s: %w", du.Email, err)
		}
		ids[du.Email] = u.ID
	}

	now := time.Now().UTC()
	for _, dl := range demoListings {
		l := &model.Listing{
			SellerID:    ids[dl.SellerEmail],
			Title:       dl.Title,
			Description: dl.Description,
			Price:       decimal.RequireFromString(dl.Price),
			Category:    dl.Category,
			Condition:   dl.Condition,
			Location:    dl.Location,
			Status:      dl.Status,
			CreatedAt:   now.Add(-dl.Age),
		}
		if err := listings.CreateWithImages(ctx, l, []model.ListingImage{{URL: dl.Image}}); err != nil {
			return res, fmt.Errorf("create listing %q: %w", dl.Title, err)
		}
		res.Listings++
	}
	return res, nil
}
