package stash

import (
	"context"
	"fmt"
	"strings"
)

// CreatePerformer creates a performer with the given tags. A name collision
// with a record the caller has not seen surfaces as *CreateError.
func (c *Client) CreatePerformer(ctx context.Context, name string, tagIDs []string) (*Performer, error) {
	query := fmt.Sprintf(`mutation PerformerCreate($input: PerformerCreateInput!) {
		performerCreate(input: $input) { %s }
	}`, performerFragment)

	input := map[string]any{"name": name}
	if len(tagIDs) > 0 {
		input["tag_ids"] = tagIDs
	}
	var result struct {
		PerformerCreate *Performer `json:"performerCreate"`
	}
	if err := c.execute(ctx, query, map[string]any{"input": input}, &result); err != nil {
		if isCollisionMessage(err.Error()) {
			return nil, &CreateError{Name: name, Message: err.Error()}
		}
		return nil, fmt.Errorf("create performer %q: %w", name, err)
	}
	if result.PerformerCreate == nil {
		return nil, fmt.Errorf("create performer %q: empty response", name)
	}
	return result.PerformerCreate, nil
}

// FindOrCreateTag returns the tag with the given name, creating it when
// absent.
func (c *Client) FindOrCreateTag(ctx context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tag name required")
	}
	if tag, err := c.findTagByName(ctx, name); err != nil {
		return nil, err
	} else if tag != nil {
		return tag, nil
	}

	query := `mutation TagCreate($input: TagCreateInput!) {
		tagCreate(input: $input) { id name }
	}`
	var result struct {
		TagCreate *Tag `json:"tagCreate"`
	}
	variables := map[string]any{"input": map[string]any{"name": name}}
	if err := c.execute(ctx, query, variables, &result); err != nil {
		return nil, fmt.Errorf("create tag %q: %w", name, err)
	}
	if result.TagCreate == nil {
		return nil, fmt.Errorf("create tag %q: empty response", name)
	}
	return result.TagCreate, nil
}

// AddGalleryPerformers links performers to a gallery. The current performer
// set is re-read and merged first so the write is additive and repeatable.
func (c *Client) AddGalleryPerformers(ctx context.Context, galleryID string, performerIDs []string) error {
	gallery, err := c.FindGallery(ctx, galleryID)
	if err != nil {
		return err
	}
	if gallery == nil {
		return fmt.Errorf("gallery %s not found", galleryID)
	}

	merged := make([]string, 0, len(gallery.Performers)+len(performerIDs))
	seen := make(map[string]struct{}, len(gallery.Performers)+len(performerIDs))
	for _, ref := range gallery.Performers {
		merged = append(merged, ref.ID)
		seen[ref.ID] = struct{}{}
	}
	for _, id := range performerIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		merged = append(merged, id)
		seen[id] = struct{}{}
	}

	query := `mutation GalleryUpdate($input: GalleryUpdateInput!) {
		galleryUpdate(input: $input) { id }
	}`
	variables := map[string]any{
		"input": map[string]any{"id": galleryID, "performer_ids": merged},
	}
	if err := c.execute(ctx, query, variables, nil); err != nil {
		return fmt.Errorf("update gallery %s performers: %w", galleryID, err)
	}
	return nil
}

// AddSceneGalleries links galleries to a scene, merging with the scene's
// current gallery set.
func (c *Client) AddSceneGalleries(ctx context.Context, sceneID string, galleryIDs []string) error {
	query := `query FindScene($id: ID!) {
		findScene(id: $id) { id galleries { id title } }
	}`
	var current struct {
		FindScene *Scene `json:"findScene"`
	}
	if err := c.execute(ctx, query, map[string]any{"id": sceneID}, &current); err != nil {
		return fmt.Errorf("find scene %s: %w", sceneID, err)
	}
	if current.FindScene == nil {
		return fmt.Errorf("scene %s not found", sceneID)
	}

	merged := make([]string, 0, len(current.FindScene.Galleries)+len(galleryIDs))
	seen := make(map[string]struct{}, len(current.FindScene.Galleries)+len(galleryIDs))
	for _, ref := range current.FindScene.Galleries {
		merged = append(merged, ref.ID)
		seen[ref.ID] = struct{}{}
	}
	for _, id := range galleryIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		merged = append(merged, id)
		seen[id] = struct{}{}
	}

	mutation := `mutation SceneUpdate($input: SceneUpdateInput!) {
		sceneUpdate(input: $input) { id }
	}`
	variables := map[string]any{
		"input": map[string]any{"id": sceneID, "gallery_ids": merged},
	}
	if err := c.execute(ctx, mutation, variables, nil); err != nil {
		return fmt.Errorf("update scene %s galleries: %w", sceneID, err)
	}
	return nil
}
