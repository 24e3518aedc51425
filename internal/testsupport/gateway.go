// Package testsupport provides in-memory doubles shared by package tests.
package testsupport

import (
	"context"
	"fmt"
	"sync"

	"gallerylinker/internal/stash"
)

// FakeGateway is an in-memory stash.Gateway. It mimics the server's
// observable behavior closely enough for engine tests: additive link writes,
// duplicate-name create collisions, and find-or-create tags. All methods are
// safe for concurrent use.
type FakeGateway struct {
	mu sync.Mutex

	Galleries  []stash.Gallery
	Scenes     []stash.Scene
	Performers []stash.Performer
	Tags       []stash.Tag

	// Err, when set, is returned by every read so tests can exercise fatal
	// fetch failures.
	Err error

	// WriteErr, when set, fails link writes while leaving reads intact.
	// WriteErrGallery narrows the failure to one gallery's writes.
	WriteErr        error
	WriteErrGallery string

	// CreateConflict makes every performer create collide as if a
	// concurrent writer had just created the record; the record becomes
	// visible to later reads.
	CreateConflict bool

	// Writes counts mutating calls, letting tests assert dry-run made none.
	Writes int

	nextID int
}

var _ stash.Gateway = (*FakeGateway)(nil)

// NewFakeGateway returns an empty gateway; populate the exported slices
// directly.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

func (f *FakeGateway) Version(context.Context) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return "0.0.0-test", nil
}

func (f *FakeGateway) FindGalleries(context.Context) ([]stash.Gallery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]stash.Gallery, len(f.Galleries))
	copy(out, f.Galleries)
	return out, nil
}

func (f *FakeGateway) FindGallery(_ context.Context, id string) (*stash.Gallery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for i := range f.Galleries {
		if f.Galleries[i].ID == id {
			gallery := f.Galleries[i]
			return &gallery, nil
		}
	}
	return nil, fmt.Errorf("gallery %q not found", id)
}

func (f *FakeGateway) FindScenes(context.Context) ([]stash.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]stash.Scene, len(f.Scenes))
	copy(out, f.Scenes)
	return out, nil
}

func (f *FakeGateway) FindPerformers(context.Context) ([]stash.Performer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]stash.Performer, len(f.Performers))
	copy(out, f.Performers)
	return out, nil
}

func (f *FakeGateway) CreatePerformer(_ context.Context, name string, tagIDs []string) (*stash.Performer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.Performers {
		if existing.Name == name {
			return nil, &stash.CreateError{Name: name, Message: "performer with name already exists"}
		}
	}
	if f.CreateConflict {
		f.Performers = append(f.Performers, stash.Performer{ID: f.allocID("performer"), Name: name})
		return nil, &stash.CreateError{Name: name, Message: "performer with name already exists"}
	}
	f.Writes++
	performer := stash.Performer{ID: f.allocID("performer"), Name: name}
	for _, tagID := range tagIDs {
		for _, tag := range f.Tags {
			if tag.ID == tagID {
				performer.Tags = append(performer.Tags, tag)
			}
		}
	}
	f.Performers = append(f.Performers, performer)
	created := performer
	return &created, nil
}

func (f *FakeGateway) FindOrCreateTag(_ context.Context, name string) (*stash.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tag := range f.Tags {
		if tag.Name == name {
			found := tag
			return &found, nil
		}
	}
	f.Writes++
	tag := stash.Tag{ID: f.allocID("tag"), Name: name}
	f.Tags = append(f.Tags, tag)
	created := tag
	return &created, nil
}

func (f *FakeGateway) AddGalleryPerformers(_ context.Context, galleryID string, performerIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteErr != nil && (f.WriteErrGallery == "" || f.WriteErrGallery == galleryID) {
		return f.WriteErr
	}
	for i := range f.Galleries {
		if f.Galleries[i].ID != galleryID {
			continue
		}
		f.Writes++
		for _, id := range performerIDs {
			if f.galleryHasPerformer(i, id) {
				continue
			}
			name := ""
			for _, performer := range f.Performers {
				if performer.ID == id {
					name = performer.Name
				}
			}
			f.Galleries[i].Performers = append(f.Galleries[i].Performers, stash.PerformerRef{ID: id, Name: name})
		}
		return nil
	}
	return fmt.Errorf("gallery %q not found", galleryID)
}

func (f *FakeGateway) AddSceneGalleries(_ context.Context, sceneID string, galleryIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Scenes {
		if f.Scenes[i].ID != sceneID {
			continue
		}
		f.Writes++
		for _, id := range galleryIDs {
			if f.sceneHasGallery(i, id) {
				continue
			}
			title := ""
			for j := range f.Galleries {
				if f.Galleries[j].ID == id {
					title = f.Galleries[j].Title
					f.Galleries[j].Scenes = append(f.Galleries[j].Scenes, f.Scenes[i])
				}
			}
			f.Scenes[i].Galleries = append(f.Scenes[i].Galleries, stash.GalleryRef{ID: id, Title: title})
		}
		return nil
	}
	return fmt.Errorf("scene %q not found", sceneID)
}

func (f *FakeGateway) galleryHasPerformer(index int, performerID string) bool {
	for _, ref := range f.Galleries[index].Performers {
		if ref.ID == performerID {
			return true
		}
	}
	return false
}

func (f *FakeGateway) sceneHasGallery(index int, galleryID string) bool {
	for _, ref := range f.Scenes[index].Galleries {
		if ref.ID == galleryID {
			return true
		}
	}
	return false
}

func (f *FakeGateway) allocID(kind string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", kind, f.nextID)
}
