package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/photoalbum/internal/db"
	"github.com/vbonduro/photoalbum/internal/domain"
)

// The seeded database has website 1 and the anonymous user 1.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createPhoto(t *testing.T, photos *PhotoStore, np NewPhoto) *domain.Photo {
	t.Helper()
	if np.UserID == 0 {
		np.UserID = 1
	}
	if np.FileName == "" {
		np.FileName = "photo.jpeg"
	}
	if np.StorageKey == "" {
		np.StorageKey = "user_1/photo.jpg"
	}
	if np.MimeType == "" {
		np.MimeType = "image/jpeg"
	}
	if np.WebsiteIDs == nil {
		np.WebsiteIDs = []int64{1}
	}
	p, err := photos.Create(context.Background(), np)
	require.NoError(t, err)
	return p
}

var publicOnly = []domain.Visibility{domain.VisibilityPublic}

func TestPhotoStoreCreate(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))

	p := createPhoto(t, photos, NewPhoto{
		FileName:     "beach.jpeg",
		Description:  "At the beach",
		MetaKeywords: "beach,summer",
	})
	assert.NotZero(t, p.ID)
	assert.Equal(t, "beach.jpeg", p.FileName)
	assert.Equal(t, "At the beach", p.Description)
	assert.Equal(t, domain.VisibilityPublic, p.Visibility)
	assert.True(t, p.Active)
	require.NotNil(t, p.User)
	assert.Equal(t, "Anonymous", p.User.DisplayName)
}

func TestPhotoStoreGetByID_NotFound(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))

	p, err := photos.GetByID(context.Background(), 99999)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPhotoStoreFind_NewestFirst(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))

	first := createPhoto(t, photos, NewPhoto{FileName: "a.jpeg"})
	second := createPhoto(t, photos, NewPhoto{FileName: "b.jpeg"})

	list, err := photos.Find(context.Background(), PhotoFilter{ActiveOnly: true}, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Same-second create dates fall back to id DESC.
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestPhotoStoreFind_OffsetLimit(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createPhoto(t, photos, NewPhoto{})
	}

	page, err := photos.Find(ctx, PhotoFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	all, err := photos.Find(ctx, PhotoFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestPhotoStoreFilter_Visibility(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))
	ctx := context.Background()

	createPhoto(t, photos, NewPhoto{Visibility: domain.VisibilityPublic})
	createPhoto(t, photos, NewPhoto{Visibility: domain.VisibilityRegister})
	createPhoto(t, photos, NewPhoto{Visibility: domain.VisibilityManager})

	n, err := photos.Count(ctx, PhotoFilter{Visibilities: publicOnly})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = photos.Count(ctx, PhotoFilter{Visibilities: []domain.Visibility{
		domain.VisibilityPublic, domain.VisibilityRegister,
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = photos.Count(ctx, PhotoFilter{Visibilities: []domain.Visibility{}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPhotoStoreFilter_Active(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))
	ctx := context.Background()

	p := createPhoto(t, photos, NewPhoto{})
	createPhoto(t, photos, NewPhoto{})
	require.NoError(t, photos.SetActive(ctx, p.ID, false))

	n, err := photos.Count(ctx, PhotoFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPhotoStoreFilter_Website(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	ctx := context.Background()

	_, err := d.Exec("INSERT INTO websites (id, name) VALUES (2, 'Other')")
	require.NoError(t, err)

	createPhoto(t, photos, NewPhoto{WebsiteIDs: []int64{1}})
	createPhoto(t, photos, NewPhoto{WebsiteIDs: []int64{2}})
	createPhoto(t, photos, NewPhoto{WebsiteIDs: []int64{1, 2}})

	n, err := photos.Count(ctx, PhotoFilter{WebsiteID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = photos.Count(ctx, PhotoFilter{WebsiteID: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPhotoStoreFilter_Keyword(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))
	ctx := context.Background()

	createPhoto(t, photos, NewPhoto{MetaKeywords: "Beach,Summer"})
	createPhoto(t, photos, NewPhoto{MetaKeywords: "mountain"})
	createPhoto(t, photos, NewPhoto{MetaKeywords: "100%_real"})

	n, err := photos.Count(ctx, PhotoFilter{Keyword: "beach"})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "keyword match is case-insensitive")

	n, err = photos.Count(ctx, PhotoFilter{Keyword: "%"})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "LIKE wildcards in the key are matched literally")
}

func TestPhotoStoreFilter_UserAndIDs(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	photos := NewPhotoStore(d)
	ctx := context.Background()

	ana, err := users.Create(ctx, "Ana", "ana@example.com")
	require.NoError(t, err)

	mine := createPhoto(t, photos, NewPhoto{UserID: ana.ID})
	other := createPhoto(t, photos, NewPhoto{})

	list, err := photos.Find(ctx, PhotoFilter{UserID: ana.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
	assert.Equal(t, "Ana", list[0].User.RecName())

	list, err = photos.Find(ctx, PhotoFilter{IDs: []int64{other.ID}}, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)

	list, err = photos.Find(ctx, PhotoFilter{IDs: []int64{}}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPhotoStoreFindOne(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))
	ctx := context.Background()

	p := createPhoto(t, photos, NewPhoto{})

	got, err := photos.FindOne(ctx, PhotoFilter{IDs: []int64{p.ID}, ActiveOnly: true})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)

	got, err = photos.FindOne(ctx, PhotoFilter{IDs: []int64{p.ID + 1}})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPhotoStoreDelete(t *testing.T) {
	photos := NewPhotoStore(openTestDB(t))
	ctx := context.Background()

	p := createPhoto(t, photos, NewPhoto{})
	require.NoError(t, photos.Delete(ctx, p.ID))

	got, err := photos.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, photos.Delete(ctx, p.ID))
}
