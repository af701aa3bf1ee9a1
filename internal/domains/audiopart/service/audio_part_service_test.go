package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/domains/audiochapter"
	"talenta-backend/internal/domains/audiopart"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/infrastructure/storage/storagetest"
	"talenta-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	parts     map[uuid.UUID]*audiopart.Part
	failWrite error
}

func (f *fakeRepo) Create(_ context.Context, p *audiopart.Part) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	for _, other := range f.parts {
		if other.ChapterID == p.ChapterID && other.Order == p.Order {
			return ordering.AudioParts.ErrDuplicateOrder()
		}
	}
	p.ID = uuid.New()
	cp := *p
	f.parts[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*audiopart.Part, error) {
	p, ok := f.parts[id]
	if !ok {
		return nil, audiopart.ErrPartNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListByChapter(_ context.Context, chapterID uuid.UUID, statuses []lifecycle.Status) ([]audiopart.Part, error) {
	var out []audiopart.Part
	for _, p := range f.parts {
		if p.ChapterID != chapterID {
			continue
		}
		if len(statuses) > 0 && p.Status != statuses[0] {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p *audiopart.Part) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	cp := *p
	f.parts[p.ID] = &cp
	return nil
}

func (f *fakeRepo) Siblings(_ context.Context, chapterID uuid.UUID) ([]ordering.Sibling, error) {
	var out []ordering.Sibling
	for _, p := range f.parts {
		if p.ChapterID == chapterID {
			out = append(out, ordering.Sibling{ID: p.ID, Order: p.Order})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, chapterID, id uuid.UUID) error {
	if _, ok := f.parts[id]; !ok {
		return audiopart.ErrPartNotFound
	}
	delete(f.parts, id)
	remaining, _ := f.Siblings(ctx, chapterID)
	for _, s := range ordering.Densify(remaining) {
		f.parts[s.ID].Order = s.Order
	}
	return nil
}

func (f *fakeRepo) Reorder(ctx context.Context, chapterID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error) {
	current, _ := f.Siblings(ctx, chapterID)
	if err := ordering.AudioParts.ValidatePermutation(current, ids); err != nil {
		return nil, err
	}
	next := ordering.Assign(ids)
	for _, s := range next {
		f.parts[s.ID].Order = s.Order
	}
	return next, nil
}

func (f *fakeRepo) orders(chapterID uuid.UUID) []int {
	sibs, _ := f.Siblings(context.Background(), chapterID)
	out := make([]int, len(sibs))
	for i, s := range sibs {
		out[i] = s.Order
	}
	return out
}

type fakeChapters map[uuid.UUID]*audiochapter.AudioChapter

func (f fakeChapters) GetByID(_ context.Context, id uuid.UUID) (*audiochapter.AudioChapter, error) {
	ch, ok := f[id]
	if !ok {
		return nil, audiochapter.ErrChapterNotFound
	}
	return ch, nil
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
	svc      audiopart.Service
	repo     *fakeRepo
	chapters fakeChapters
	audios   fakeAudios
	blobs    *storagetest.Store
	owner    *access.Actor
}

func setup() *fixture {
	f := &fixture{
		repo:     &fakeRepo{parts: map[uuid.UUID]*audiopart.Part{}},
		chapters: fakeChapters{},
		audios:   fakeAudios{},
		blobs:    storagetest.New(),
		owner:    newActor(access.RoleCreator),
	}
	f.svc = NewAudioPartService(f.repo, f.chapters, f.audios, f.blobs, 1<<20)
	return f
}

// chapter seeds an audio with one chapter and returns both.
func (f *fixture) chapter(audioStatus, chapterStatus lifecycle.Status) (*audio.Audio, *audiochapter.AudioChapter) {
	a := &audio.Audio{ID: uuid.New(), OwnerID: f.owner.UserID, Title: "Podcast", Status: audioStatus}
	f.audios[a.ID] = a
	ch := &audiochapter.AudioChapter{ID: uuid.New(), AudioID: a.ID, AuthorID: f.owner.UserID, Title: "Intro", Order: 1, Status: chapterStatus}
	f.chapters[ch.ID] = ch
	return a, ch
}

func (f *fixture) create(t *testing.T, chapterID uuid.UUID, status string) *audiopart.Part {
	t.Helper()
	p, err := f.svc.Create(context.Background(), f.owner, chapterID, audiopart.CreateRequest{Status: status}, nil)
	require.NoError(t, err)
	return p
}

func mp3(body string) *storage.File {
	return &storage.File{Reader: bytes.NewBufferString(body), Size: int64(len(body)), Name: "take.mp3", ContentType: "audio/mpeg"}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := setup()
	_, ch := f.chapter(lifecycle.StatusDraft, lifecycle.StatusDraft)

	title := "  Opening "
	p, err := f.svc.Create(ctx, f.owner, ch.ID, audiopart.CreateRequest{Title: &title}, mp3("abc"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Order)
	assert.Equal(t, "Opening", *p.Title)
	assert.Equal(t, lifecycle.StatusDraft, p.Status)
	require.NotNil(t, p.PublicID)
	assert.Equal(t, []byte("abc"), f.blobs.Bytes(*p.PublicID))
	assert.Equal(t, "take.mp3", *p.FileName)

	second := f.create(t, ch.ID, "PUBLISHED")
	assert.Equal(t, 2, second.Order)
	assert.Nil(t, second.PublicID)
	assert.NotNil(t, second.PublishedAt)

	t.Run("skipped order", func(t *testing.T) {
		skip := 4
		_, err := f.svc.Create(ctx, f.owner, ch.ID, audiopart.CreateRequest{Order: &skip}, nil)
		require.Error(t, err)
		assert.Equal(t, "The next part must be order 3. You cannot skip orders.", err.Error())
	})

	t.Run("unsupported file", func(t *testing.T) {
		file := mp3("x")
		file.ContentType = "text/plain"
		_, err := f.svc.Create(ctx, f.owner, ch.ID, audiopart.CreateRequest{}, file)
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	})

	t.Run("failed write destroys the upload", func(t *testing.T) {
		f.repo.failWrite = errors.New("db down")
		defer func() { f.repo.failWrite = nil }()

		_, err := f.svc.Create(ctx, f.owner, ch.ID, audiopart.CreateRequest{}, mp3("zz"))
		require.Error(t, err)
		require.Len(t, f.blobs.Destroyed, 1)
		assert.False(t, f.blobs.Has(f.blobs.Destroyed[0]))
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := f.svc.Create(ctx, newActor(access.RoleUser), ch.ID, audiopart.CreateRequest{}, nil)
		assert.ErrorIs(t, err, audiochapter.ErrChapterNotFound)

		_, err = f.svc.Create(ctx, nil, ch.ID, audiopart.CreateRequest{}, nil)
		assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))

		_, pub := f.chapter(lifecycle.StatusPublished, lifecycle.StatusPublished)
		_, err = f.svc.Create(ctx, newActor(access.RoleAdmin), pub.ID, audiopart.CreateRequest{}, nil)
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	})
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	f := setup()
	a, ch := f.chapter(lifecycle.StatusPublished, lifecycle.StatusPublished)
	draft := f.create(t, ch.ID, "")
	live := f.create(t, ch.ID, "PUBLISHED")

	listing, err := f.svc.List(ctx, nil, audiopart.ListOptions{ChapterID: ch.ID, IncludeUnpublished: true})
	require.NoError(t, err)
	require.Len(t, listing.Parts, 1)
	assert.Equal(t, live.ID, listing.Parts[0].ID)
	assert.Equal(t, a.ID, listing.Chapter.AudioID)

	listing, err = f.svc.List(ctx, f.owner, audiopart.ListOptions{ChapterID: ch.ID, IncludeUnpublished: true})
	require.NoError(t, err)
	assert.Len(t, listing.Parts, 2)

	_, err = f.svc.Get(ctx, nil, draft.ID)
	assert.ErrorIs(t, err, audiopart.ErrPartNotFound)
	_, err = f.svc.Get(ctx, newActor(access.RoleAdmin), draft.ID)
	assert.NoError(t, err)

	t.Run("hidden audio hides published parts", func(t *testing.T) {
		a.Status = lifecycle.StatusArchived
		defer func() { a.Status = lifecycle.StatusPublished }()

		_, err := f.svc.Get(ctx, nil, live.ID)
		assert.ErrorIs(t, err, audiopart.ErrPartNotFound)
		_, err = f.svc.List(ctx, nil, audiopart.ListOptions{ChapterID: ch.ID})
		assert.ErrorIs(t, err, audiochapter.ErrChapterNotFound)
	})

	t.Run("draft chapter hides published parts", func(t *testing.T) {
		ch.Status = lifecycle.StatusDraft
		defer func() { ch.Status = lifecycle.StatusPublished }()

		_, err := f.svc.Get(ctx, newActor(access.RoleUser), live.ID)
		assert.ErrorIs(t, err, audiopart.ErrPartNotFound)
	})

	t.Run("stranger writes", func(t *testing.T) {
		title := "x"
		_, err := f.svc.Update(ctx, newActor(access.RoleUser), live.ID, audiopart.UpdateRequest{Title: &title}, nil)
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

		err = f.svc.Delete(ctx, newActor(access.RoleUser), draft.ID)
		assert.ErrorIs(t, err, audiopart.ErrPartNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := setup()
	_, ch := f.chapter(lifecycle.StatusDraft, lifecycle.StatusDraft)
	p, err := f.svc.Create(ctx, f.owner, ch.ID, audiopart.CreateRequest{}, mp3("old"))
	require.NoError(t, err)
	f.create(t, ch.ID, "")
	oldKey := *p.PublicID

	t.Run("file replace destroys the old blob", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, f.owner, p.ID, audiopart.UpdateRequest{}, mp3("new"))
		require.NoError(t, err)
		assert.NotEqual(t, oldKey, *updated.PublicID)
		assert.Equal(t, []byte("new"), f.blobs.Bytes(*updated.PublicID))
		assert.Equal(t, []string{oldKey}, f.blobs.Destroyed)
	})

	t.Run("order gap", func(t *testing.T) {
		gap := 3
		_, err := f.svc.Update(ctx, f.owner, p.ID, audiopart.UpdateRequest{Order: &gap}, nil)
		require.Error(t, err)
		assert.Equal(t, "Part orders must be sequential without gaps.", err.Error())
	})

	t.Run("status transitions", func(t *testing.T) {
		publish, archive := "PUBLISHED", "ARCHIVED"
		updated, err := f.svc.Update(ctx, f.owner, p.ID, audiopart.UpdateRequest{Status: &publish}, nil)
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)

		_, err = f.svc.Update(ctx, f.owner, p.ID, audiopart.UpdateRequest{Status: &archive}, nil)
		require.NoError(t, err)
		_, err = f.svc.Update(ctx, f.owner, p.ID, audiopart.UpdateRequest{Status: &publish}, nil)
		require.Error(t, err)
		assert.Equal(t, "Cannot change status from ARCHIVED to PUBLISHED", err.Error())
	})
}

func TestDeleteAndReorder(t *testing.T) {
	ctx := context.Background()
	f := setup()
	_, ch := f.chapter(lifecycle.StatusDraft, lifecycle.StatusDraft)
	one := f.create(t, ch.ID, "")
	two, err := f.svc.Create(ctx, f.owner, ch.ID, audiopart.CreateRequest{}, mp3("p"))
	require.NoError(t, err)
	three := f.create(t, ch.ID, "")

	require.NoError(t, f.svc.Delete(ctx, f.owner, two.ID))
	assert.Equal(t, []int{1, 2}, f.repo.orders(ch.ID))
	assert.Equal(t, []string{*two.PublicID}, f.blobs.Destroyed)

	sibs, err := f.svc.Reorder(ctx, f.owner, ch.ID, audiopart.ReorderRequest{PartIDs: []string{three.ID.String(), one.ID.String()}})
	require.NoError(t, err)
	assert.Equal(t, three.ID, sibs[0].ID)
	assert.Equal(t, 2, f.repo.parts[one.ID].Order)

	_, err = f.svc.Reorder(ctx, f.owner, ch.ID, audiopart.ReorderRequest{PartIDs: []string{"bad"}})
	assert.ErrorIs(t, err, audiopart.ErrInvalidIDs)

	_, err = f.svc.Reorder(ctx, f.owner, ch.ID, audiopart.ReorderRequest{})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	_, err = f.svc.Reorder(ctx, f.owner, ch.ID, audiopart.ReorderRequest{PartIDs: []string{uuid.NewString(), one.ID.String()}})
	require.Error(t, err)
	assert.Equal(t, "Some parts do not belong to this chapter.", err.Error())
}
