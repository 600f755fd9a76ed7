package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"manvan/internal/config"
	"manvan/internal/logging"
	"manvan/internal/storage"
	"manvan/internal/storage/selector"
)

type demoListing struct {
	listing  storage.VanListing
	services []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(cfg.ServiceName+"-seed", cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := selector.Select(ctx, selector.Options{
		MongoURI:       cfg.MongoURI,
		MongoDatabase:  cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
		DatabaseURL:    cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}
	defer store.Close(context.Background())

	if _, err := store.GetUserByUsername(ctx, "admin"); err == nil {
		log.Info().Msg("demo data already present, nothing to do")
		return
	} else if !storage.IsNotFound(err) {
		log.Fatal().Err(err).Msg("check existing data")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}

	users := []*storage.User{
		{Username: "admin", Email: "admin@manandvan.local", FullName: "Site Admin", IsAdmin: true},
		{Username: "olive", Email: "olive@manandvan.local", FullName: "Olive Okafor", Phone: "07700 900101", IsVanOwner: true},
		{Username: "mo", Email: "mo@manandvan.local", FullName: "Mo Patel", Phone: "07700 900202", IsVanOwner: true},
		{Username: "carla", Email: "carla@manandvan.local", FullName: "Carla Jones"},
	}
	for _, u := range users {
		u.Password = string(hash)
		if err := store.CreateUser(ctx, u); err != nil {
			log.Fatal().Err(err).Str("username", u.Username).Msg("create user")
		}
	}
	olive, mo, carla := users[1], users[2], users[3]

	listings := []demoListing{
		{
			listing: storage.VanListing{
				UserID: olive.ID, Title: "Luton van with tail lift", VanSize: storage.VanLarge,
				Description: "Ideal for full house moves. Blankets and straps included.",
				HourlyRate:  45, Location: "Islington, London", Postcode: "N1 9GU", HelpersCount: 2, IsAvailableToday: true,
			},
			services: []string{"House moves", "Furniture assembly", "Packing"},
		},
		{
			listing: storage.VanListing{
				UserID: olive.ID, Title: "Short wheelbase Transit", VanSize: storage.VanSmall,
				Description: "Quick single-item jobs and student moves.",
				HourlyRate:  25, Location: "Camden, London", Postcode: "NW1 8QL", HelpersCount: 0,
			},
			services: []string{"Single items", "Student moves"},
		},
		{
			listing: storage.VanListing{
				UserID: mo.ID, Title: "Long wheelbase Sprinter", VanSize: storage.VanMedium,
				Description: "Flat moves across Manchester and the North West.",
				HourlyRate:  35, Location: "Ancoats, Manchester", Postcode: "M4 6BF", HelpersCount: 1, IsAvailableToday: true,
			},
			services: []string{"Flat moves", "Office moves"},
		},
	}
	for i := range listings {
		l := &listings[i].listing
		if err := store.CreateVanListing(ctx, l); err != nil {
			log.Fatal().Err(err).Str("title", l.Title).Msg("create listing")
		}
		for _, name := range listings[i].services {
			if err := store.AddService(ctx, &storage.Service{VanListingID: l.ID, ServiceName: name}); err != nil {
				log.Fatal().Err(err).Msg("add service")
			}
		}
	}

	first := listings[0].listing
	b := &storage.Booking{
		UserID:       carla.ID,
		VanListingID: first.ID,
		BookingDate:  time.Now().AddDate(0, 0, 3).Truncate(time.Hour),
		Duration:     3,
		FromLocation: "N1 9GU",
		ToLocation:   "E8 3PN",
		Status:       storage.BookingConfirmed,
		TotalPrice:   3 * first.HourlyRate,
		Notes:        "Third floor, no lift",
	}
	if err := store.CreateBooking(ctx, b); err != nil {
		log.Fatal().Err(err).Msg("create booking")
	}
	if err := store.CreateMessage(ctx, &storage.Message{BookingID: b.ID, SenderID: carla.ID, Content: "Is 9am okay?"}); err != nil {
		log.Fatal().Err(err).Msg("create message")
	}
	if err := store.CreateReview(ctx, &storage.Review{UserID: carla.ID, VanListingID: first.ID, Rating: 5, Comment: "Fast and careful."}); err != nil {
		log.Fatal().Err(err).Msg("create review")
	}

	log.Info().
		Str("storage", string(store.Kind())).
		Int("users", len(users)).
		Int("listings", len(listings)).
		Msg("demo data seeded (password: password123)")
}
