package stash

import (
	"context"
	"fmt"
)

// galleryFragment mirrors what one linking pass needs: linked scenes come
// back with their performers so the scene-derived generator never issues
// follow-up queries.
const galleryFragment = `
	id
	title
	date
	files { path }
	performers { id name }
	tags { id name }
	scenes {
		id
		title
		date
		files { path }
		performers { id name }
	}
`

const sceneFragment = `
	id
	title
	date
	files { path }
	performers { id name }
	galleries { id title }
`

const performerFragment = `
	id
	name
	alias_list
	tags { id name }
`

// FindGalleries returns every gallery with its linked scenes and performers.
func (c *Client) FindGalleries(ctx context.Context) ([]Gallery, error) {
	query := fmt.Sprintf(`query FindGalleries($filter: FindFilterType) {
		findGalleries(filter: $filter) {
			count
			galleries { %s }
		}
	}`, galleryFragment)

	var result struct {
		FindGalleries struct {
			Count     int       `json:"count"`
			Galleries []Gallery `json:"galleries"`
		} `json:"findGalleries"`
	}
	variables := map[string]any{"filter": map[string]any{"per_page": -1}}
	if err := c.execute(ctx, query, variables, &result); err != nil {
		return nil, fmt.Errorf("find galleries: %w", err)
	}
	return result.FindGalleries.Galleries, nil
}

// FindGallery returns a single gallery by ID, or nil when it does not exist.
func (c *Client) FindGallery(ctx context.Context, id string) (*Gallery, error) {
	query := fmt.Sprintf(`query FindGallery($id: ID!) {
		findGallery(id: $id) { %s }
	}`, galleryFragment)

	var result struct {
		FindGallery *Gallery `json:"findGallery"`
	}
	if err := c.execute(ctx, query, map[string]any{"id": id}, &result); err != nil {
		return nil, fmt.Errorf("find gallery %s: %w", id, err)
	}
	return result.FindGallery, nil
}

// FindScenes returns every scene with its linked galleries.
func (c *Client) FindScenes(ctx context.Context) ([]Scene, error) {
	query := fmt.Sprintf(`query FindScenes($filter: FindFilterType) {
		findScenes(filter: $filter) {
			count
			scenes { %s }
		}
	}`, sceneFragment)

	var result struct {
		FindScenes struct {
			Count  int     `json:"count"`
			Scenes []Scene `json:"scenes"`
		} `json:"findScenes"`
	}
	variables := map[string]any{"filter": map[string]any{"per_page": -1}}
	if err := c.execute(ctx, query, variables, &result); err != nil {
		return nil, fmt.Errorf("find scenes: %w", err)
	}
	return result.FindScenes.Scenes, nil
}

// FindPerformers returns the full performer registry with aliases.
func (c *Client) FindPerformers(ctx context.Context) ([]Performer, error) {
	query := fmt.Sprintf(`query FindPerformers($filter: FindFilterType) {
		findPerformers(filter: $filter) {
			count
			performers { %s }
		}
	}`, performerFragment)

	var result struct {
		FindPerformers struct {
			Count      int         `json:"count"`
			Performers []Performer `json:"performers"`
		} `json:"findPerformers"`
	}
	variables := map[string]any{"filter": map[string]any{"per_page": -1}}
	if err := c.execute(ctx, query, variables, &result); err != nil {
		return nil, fmt.Errorf("find performers: %w", err)
	}
	return result.FindPerformers.Performers, nil
}

func (c *Client) findTagByName(ctx context.Context, name string) (*Tag, error) {
	query := `query FindTags($filter: TagFilterType) {
		findTags(tag_filter: $filter) {
			count
			tags { id name }
		}
	}`
	var result struct {
		FindTags struct {
			Count int   `json:"count"`
			Tags  []Tag `json:"tags"`
		} `json:"findTags"`
	}
	variables := map[string]any{
		"filter": map[string]any{
			"name": map[string]any{"value": name, "modifier": "EQUALS"},
		},
	}
	if err := c.execute(ctx, query, variables, &result); err != nil {
		return nil, fmt.Errorf("find tag %q: %w", name, err)
	}
	if len(result.FindTags.Tags) == 0 {
		return nil, nil
	}
	tag := result.FindTags.Tags[0]
	return &tag, nil
}
