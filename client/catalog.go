package client

import (
	"context"
	"sync"

	"github.com/nxlauncher/launcher-admin-system/reorder"
	"github.com/nxlauncher/launcher-admin-system/types"
)

// Catalog holds the loaded game list and the drag reorder state for the
// catalog view. Reordering is disabled while a search filter narrows the
// visible set, since a partial order would be meaningless to persist.
type Catalog struct {
	client *Client
	engine *reorder.Engine

	mu    sync.Mutex
	games map[string]*types.Game
}

func NewCatalog(c *Client) *Catalog {
	return &Catalog{
		client: c,
		engine: reorder.NewEngine(c),
		games:  make(map[string]*types.Game),
	}
}

func (c *Catalog) Engine() *reorder.Engine {
	return c.engine
}

func (c *Catalog) SetEditable(editable bool) {
	c.engine.SetEditable(editable)
}

// Load fetches the catalog and refreshes the reorder engine's order. A
// filtered load leaves the last unfiltered order in place and only flips the
// engine's filter state.
func (c *Catalog) Load(ctx context.Context, filter *types.GamesFilter) ([]*types.Game, error) {
	games, err := c.client.ListGames(ctx, filter)
	if err != nil {
		return nil, err
	}

	filtered := filter != nil && (filter.SearchPartial != nil || filter.Section != nil)

	c.mu.Lock()
	for _, g := range games {
		c.games[g.ID] = g
	}
	c.mu.Unlock()

	c.engine.SetFilterActive(filtered)
	if !filtered {
		ids := make([]string, 0, len(games))
		for _, g := range games {
			ids = append(ids, g.ID)
		}
		c.engine.SetOrder(ids)
	}

	return games, nil
}

// Games returns the cached records in the engine's current order.
func (c *Catalog) Games() []*types.Game {
	c.mu.Lock()
	defer c.mu.Unlock()

	order := c.engine.Order()
	games := make([]*types.Game, 0, len(order))
	for _, id := range order {
		if g, ok := c.games[id]; ok {
			games = append(games, g)
		}
	}
	return games
}

func (c *Catalog) Game(id string) (*types.Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.games[id]
	return g, ok
}

// Delete removes the record server-side and drops it from the local order,
// cancelling any drag that involves it.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.client.DeleteGame(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.games, id)
	c.mu.Unlock()

	c.engine.RemoveID(id)
	return nil
}

// Drop commits the pending drag. On success the cached records take their
// server-assigned sort orders; on failure the engine has already rolled the
// order back.
func (c *Catalog) Drop(ctx context.Context) (*types.ReorderResult, error) {
	result, err := c.engine.Drop(ctx)
	if err != nil || result == nil {
		return result, err
	}

	c.mu.Lock()
	for i, id := range result.Order {
		if g, ok := c.games[id]; ok {
			g.SortOrder = reorder.SortOrderFor(i)
		}
	}
	c.mu.Unlock()

	return result, nil
}
