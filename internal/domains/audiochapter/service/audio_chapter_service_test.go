package service

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/domains/audiochapter"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/infrastructure/storage/storagetest"
	"talenta-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	chapters map[uuid.UUID]*audiochapter.AudioChapter
	// partFiles are the part blobs per chapter returned on delete.
	partFiles map[uuid.UUID][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{chapters: map[uuid.UUID]*audiochapter.AudioChapter{}, partFiles: map[uuid.UUID][]string{}}
}

func (f *fakeRepo) Create(_ context.Context, ch *audiochapter.AudioChapter) error {
	for _, other := range f.chapters {
		if other.AudioID == ch.AudioID && other.Order == ch.Order {
			return ordering.AudioChapters.ErrDuplicateOrder()
		}
	}
	ch.ID = uuid.New()
	cp := *ch
	f.chapters[ch.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*audiochapter.AudioChapter, error) {
	ch, ok := f.chapters[id]
	if !ok {
		return nil, audiochapter.ErrChapterNotFound
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeRepo) ListByAudio(_ context.Context, audioID uuid.UUID, statuses []lifecycle.Status) ([]audiochapter.AudioChapter, error) {
	var out []audiochapter.AudioChapter
	for _, ch := range f.chapters {
		if ch.AudioID != audioID {
			continue
		}
		if len(statuses) > 0 && ch.Status != statuses[0] {
			continue
		}
		out = append(out, *ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, ch *audiochapter.AudioChapter) error {
	cp := *ch
	f.chapters[ch.ID] = &cp
	return nil
}

func (f *fakeRepo) Siblings(_ context.Context, audioID uuid.UUID) ([]ordering.Sibling, error) {
	var out []ordering.Sibling
	for _, ch := range f.chapters {
		if ch.AudioID == audioID {
			out = append(out, ordering.Sibling{ID: ch.ID, Order: ch.Order})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, audioID, id uuid.UUID) ([]string, error) {
	if _, ok := f.chapters[id]; !ok {
		return nil, audiochapter.ErrChapterNotFound
	}
	delete(f.chapters, id)
	remaining, _ := f.Siblings(ctx, audioID)
	for _, s := range ordering.Densify(remaining) {
		f.chapters[s.ID].Order = s.Order
	}
	return f.partFiles[id], nil
}

func (f *fakeRepo) Reorder(ctx context.Context, audioID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error) {
	current, _ := f.Siblings(ctx, audioID)
	if err := ordering.AudioChapters.ValidatePermutation(current, ids); err != nil {
		return nil, err
	}
	next := ordering.Assign(ids)
	for _, s := range next {
		f.chapters[s.ID].Order = s.Order
	}
	return next, nil
}

func (f *fakeRepo) orders(audioID uuid.UUID) []int {
	sibs, _ := f.Siblings(context.Background(), audioID)
	out := make([]int, len(sibs))
	for i, s := range sibs {
		out[i] = s.Order
	}
	return out
}

type fakeAudios map[uuid.UUID]*audio.Audio

func (f fakeAudios) GetByID(_ context.Context, id uuid.UUID) (*audio.Audio, error) {
	a, ok := f[id]
	if !ok {
		return nil, audio.ErrAudioNotFound
	}
	return a, nil
}

func newActor(role access.Role) *access.Actor {
	return &access.Actor{UserID: uuid.New(), Role: role, IsActive: true}
}

type fixture struct {
	svc    audiochapter.Service
	repo   *fakeRepo
	audios fakeAudios
	blobs  *storagetest.Store
	owner  *access.Actor
}

func setup() *fixture {
	f := &fixture{
		repo:   newFakeRepo(),
		audios: fakeAudios{},
		blobs:  storagetest.New(),
		owner:  newActor(access.RoleCreator),
	}
	f.svc = NewAudioChapterService(f.repo, f.audios, f.blobs)
	return f
}

func (f *fixture) audio(status lifecycle.Status) *audio.Audio {
	a := &audio.Audio{ID: uuid.New(), OwnerID: f.owner.UserID, Title: "Podcast", Status: status}
	f.audios[a.ID] = a
	return a
}

func (f *fixture) create(t *testing.T, audioID uuid.UUID, title, status string) *audiochapter.AudioChapter {
	t.Helper()
	ch, err := f.svc.Create(context.Background(), f.owner, audioID, audiochapter.CreateRequest{Title: title, Status: status})
	require.NoError(t, err)
	return ch
}

func TestCreateOrdering(t *testing.T) {
	ctx := context.Background()
	f := setup()
	a := f.audio(lifecycle.StatusDraft)

	first := f.create(t, a.ID, "One", "")
	second := f.create(t, a.ID, "Two", "PUBLISHED")
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, lifecycle.StatusDraft, first.Status)
	require.NotNil(t, second.PublishedAt)

	skip := 5
	_, err := f.svc.Create(ctx, f.owner, a.ID, audiochapter.CreateRequest{Title: "Five", Order: &skip})
	require.Error(t, err)
	assert.Equal(t, "The next chapter must be order 3. You cannot skip orders.", err.Error())

	next := 3
	dur := "61.5"
	ch, err := f.svc.Create(ctx, f.owner, a.ID, audiochapter.CreateRequest{Title: "Three", Order: &next, Duration: &dur})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("61.5").Equal(ch.Duration))

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.owner, a.ID, audiochapter.CreateRequest{})
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

		bad := "-1"
		_, err = f.svc.Create(ctx, f.owner, a.ID, audiochapter.CreateRequest{Title: "x", Duration: &bad})
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	})

	t.Run("only the owner creates", func(t *testing.T) {
		published := f.audio(lifecycle.StatusPublished)
		_, err := f.svc.Create(ctx, newActor(access.RoleUser), published.ID, audiochapter.CreateRequest{Title: "x"})
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

		_, err = f.svc.Create(ctx, newActor(access.RoleUser), a.ID, audiochapter.CreateRequest{Title: "x"})
		assert.ErrorIs(t, err, audio.ErrAudioNotFound)

		_, err = f.svc.Create(ctx, nil, a.ID, audiochapter.CreateRequest{Title: "x"})
		assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
	})
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	f := setup()
	a := f.audio(lifecycle.StatusPublished)
	draft := f.create(t, a.ID, "Draft", "")
	published := f.create(t, a.ID, "Live", "PUBLISHED")

	listing, err := f.svc.List(ctx, nil, audiochapter.ListOptions{AudioID: a.ID, IncludeUnpublished: true})
	require.NoError(t, err)
	require.Len(t, listing.Chapters, 1)
	assert.Equal(t, published.ID, listing.Chapters[0].ID)
	assert.Equal(t, "Podcast", listing.Audio.Title)

	listing, err = f.svc.List(ctx, f.owner, audiochapter.ListOptions{AudioID: a.ID, IncludeUnpublished: true})
	require.NoError(t, err)
	assert.Len(t, listing.Chapters, 2)

	_, err = f.svc.Get(ctx, nil, draft.ID)
	assert.ErrorIs(t, err, audiochapter.ErrChapterNotFound)
	_, err = f.svc.Get(ctx, newActor(access.RoleAdmin), draft.ID)
	assert.NoError(t, err)

	t.Run("draft audio hides its chapters", func(t *testing.T) {
		a.Status = lifecycle.StatusDraft
		defer func() { a.Status = lifecycle.StatusPublished }()

		_, err := f.svc.Get(ctx, nil, published.ID)
		assert.ErrorIs(t, err, audiochapter.ErrChapterNotFound)
		_, err = f.svc.List(ctx, nil, audiochapter.ListOptions{AudioID: a.ID})
		assert.ErrorIs(t, err, audio.ErrAudioNotFound)
	})

	t.Run("stranger writes", func(t *testing.T) {
		title := "x"
		_, err := f.svc.Update(ctx, newActor(access.RoleUser), published.ID, audiochapter.UpdateRequest{Title: &title})
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

		err = f.svc.Delete(ctx, newActor(access.RoleUser), draft.ID)
		assert.ErrorIs(t, err, audiochapter.ErrChapterNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := setup()
	a := f.audio(lifecycle.StatusDraft)
	first := f.create(t, a.ID, "One", "")
	f.create(t, a.ID, "Two", "")

	gap := 3
	_, err := f.svc.Update(ctx, f.owner, first.ID, audiochapter.UpdateRequest{Order: &gap})
	require.Error(t, err)
	assert.Equal(t, "Chapter orders must be sequential without gaps.", err.Error())

	status, title, words := "ARCHIVED", " Renamed ", 120
	ch, err := f.svc.Update(ctx, f.owner, first.ID, audiochapter.UpdateRequest{Status: &status, Title: &title, WordCount: &words})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusArchived, ch.Status)
	assert.Equal(t, "Renamed", ch.Title)
	assert.Equal(t, 120, ch.WordCount)

	publish := "PUBLISHED"
	_, err = f.svc.Update(ctx, f.owner, first.ID, audiochapter.UpdateRequest{Status: &publish})
	require.Error(t, err)
	assert.Equal(t, "Cannot change status from ARCHIVED to PUBLISHED", err.Error())
}

func TestDeleteAndReorder(t *testing.T) {
	ctx := context.Background()
	f := setup()
	a := f.audio(lifecycle.StatusDraft)
	one := f.create(t, a.ID, "One", "")
	two := f.create(t, a.ID, "Two", "")
	three := f.create(t, a.ID, "Three", "")

	f.blobs.Put("audio-parts/p1.mp3", []byte("p"))
	f.repo.partFiles[two.ID] = []string{"audio-parts/p1.mp3"}

	require.NoError(t, f.svc.Delete(ctx, f.owner, two.ID))
	assert.Equal(t, []int{1, 2}, f.repo.orders(a.ID))
	assert.Equal(t, []string{"audio-parts/p1.mp3"}, f.blobs.Destroyed)
	assert.False(t, f.blobs.Has("audio-parts/p1.mp3"))

	sibs, err := f.svc.Reorder(ctx, f.owner, a.ID, audiochapter.ReorderRequest{ChapterIDs: []string{three.ID.String(), one.ID.String()}})
	require.NoError(t, err)
	assert.Equal(t, three.ID, sibs[0].ID)
	assert.Equal(t, 2, f.repo.chapters[one.ID].Order)

	_, err = f.svc.Reorder(ctx, f.owner, a.ID, audiochapter.ReorderRequest{ChapterIDs: []string{"nope"}})
	assert.ErrorIs(t, err, audiochapter.ErrInvalidIDs)

	_, err = f.svc.Reorder(ctx, f.owner, a.ID, audiochapter.ReorderRequest{ChapterIDs: []string{one.ID.String()}})
	require.Error(t, err)
	assert.Equal(t, "Reorder must include all 2 chapters of this audio.", err.Error())
}
