// Command albumctl runs the operator's maintenance tasks against the album
// database: moderation, users and the per-site album switches.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/vbonduro/photoalbum/internal/config"
	"github.com/vbonduro/photoalbum/internal/db"
	"github.com/vbonduro/photoalbum/internal/domain"
	"github.com/vbonduro/photoalbum/internal/logging"
	"github.com/vbonduro/photoalbum/internal/photostore/local"
	"github.com/vbonduro/photoalbum/internal/search"
	"github.com/vbonduro/photoalbum/internal/service"
	"github.com/vbonduro/photoalbum/internal/store"
)

func main() {
	var (
		hidePhoto   = flag.Int64("hide-photo", 0, "Hide the photo with this id")
		showPhoto   = flag.Int64("show-photo", 0, "Show the photo with this id again")
		deletePhoto = flag.Int64("delete-photo", 0, "Delete the photo with this id, its comments and its image")
		hideComment = flag.Int64("hide-comment", 0, "Hide the comment with this id")
		createUser  = flag.Bool("create-user", false, "Create a user from -name and -email")
		name        = flag.String("name", "", "Display name for -create-user")
		email       = flag.String("email", "", "Email for -create-user")
		maxSize     = flag.Int64("max-size", -1, "Largest accepted image in bytes (0 restores the default)")
		website     = flag.Bool("website", false, "Update the album switches given by -new, -new-anonymous, -comments, -anonymous and -anonymous-user")
		allowNew    = flag.Bool("new", false, "Allow new images")
		newAnon     = flag.Bool("new-anonymous", false, "Allow anonymous new images")
		comments    = flag.Bool("comments", false, "Allow comments")
		anonymous   = flag.Bool("anonymous", false, "Allow anonymous comments")
		anonUser    = flag.String("anonymous-user", "", "Id of the user owning anonymous posts, or \"none\"")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, cleanup, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = database.Close() }()

	photoStg, err := local.NewLocalPhotoStore(cfg.Photos.Path)
	if err != nil {
		log.Fatalf("failed to open photo store: %v", err)
	}

	admin := service.NewAdminService(service.AdminRepositories{
		Websites: store.NewWebsiteStore(database),
		Users:    store.NewUserStore(database),
		Config:   store.NewConfigStore(database),
		Photos:   store.NewPhotoStore(database),
		Comments: store.NewCommentStore(database),
	}, search.NewIndex(database, cfg.Search.Locales, cfg.Search.MaxLimit), photoStg, cfg.Site.ID, logger)

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	ctx := context.Background()
	switch {
	case set["hide-photo"]:
		err = admin.SetPhotoActive(ctx, *hidePhoto, false)
	case set["show-photo"]:
		err = admin.SetPhotoActive(ctx, *showPhoto, true)
	case set["delete-photo"]:
		err = admin.DeletePhoto(ctx, *deletePhoto)
	case set["hide-comment"]:
		err = admin.SetCommentActive(ctx, *hideComment, false)
	case *createUser:
		var u *domain.User
		if u, err = admin.CreateUser(ctx, *name, *email); err == nil {
			fmt.Printf("created user %d\n", u.ID)
		}
	case set["max-size"]:
		err = admin.SetMaxSize(ctx, *maxSize)
	case *website:
		var anonID *int64
		if set["anonymous-user"] && *anonUser != "none" {
			id, perr := strconv.ParseInt(*anonUser, 10, 64)
			if perr != nil {
				log.Fatalf("invalid -anonymous-user %q", *anonUser)
			}
			anonID = &id
		}
		_, err = admin.UpdateWebsite(ctx, func(w *domain.Website) {
			if set["new"] {
				w.PhotoalbumNew = *allowNew
			}
			if set["new-anonymous"] {
				w.PhotoalbumNewAnon = *newAnon
			}
			if set["comments"] {
				w.PhotoalbumComment = *comments
			}
			if set["anonymous"] {
				w.PhotoalbumAnonymous = *anonymous
			}
			if set["anonymous-user"] {
				w.PhotoalbumAnonUserID = anonID
			}
		})
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -delete-photo 42\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -create-user -name \"Guest\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -website -new -new-anonymous -anonymous-user 3\n", os.Args[0])
		cleanup()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("albumctl failed", "error", err)
		cleanup()
		os.Exit(1)
	}
}
